package pagedapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dghubble/sling"

	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/event"
	"github.com/aomarket/aom-harvest/internal/fetch"
	"github.com/aomarket/aom-harvest/internal/logger"
	"github.com/aomarket/aom-harvest/internal/source"
)

// SourceName is the tag recorded on every event this adapter produces.
const SourceName = "api"

const (
	searchPath = "v1/events/search"

	// MaxPages caps the pagination loop independent of server-reported
	// state, so a server that always claims more results cannot cause an
	// unbounded loop.
	MaxPages = 10

	retryWait = 500 * time.Millisecond
)

// Adapter queries the events search API.
type Adapter struct {
	base   *sling.Sling
	client *fetch.Client
	cfg    config.Config
	now    func() time.Time
}

// New creates an API adapter from the resolved configuration.
func New(client *fetch.Client, cfg config.Config) *Adapter {
	base := sling.New().
		Client(client.HTTPClient()).
		Base(strings.TrimSuffix(cfg.APIBaseURL, "/") + "/").
		Set("User-Agent", fetch.UserAgent).
		Set("Accept", "application/json")
	if cfg.APIKey != "" {
		base.Set("Authorization", "Key "+cfg.APIKey)
	}
	return &Adapter{base: base, client: client, cfg: cfg, now: time.Now}
}

// Name returns the adapter's source tag.
func (a *Adapter) Name() string { return SourceName }

// searchParams is the query for one page request.
type searchParams struct {
	Query       string `url:"q,omitempty"`
	StartUTC    string `url:"start_utc,omitempty"`
	EndUTC      string `url:"end_utc,omitempty"`
	Address     string `url:"address,omitempty"`
	WithinMiles int    `url:"within_miles,omitempty"`
	Cursor      string `url:"cursor,omitempty"`
	Page        int    `url:"page,omitempty"`
}

// searchPage is one page of the API response.
type searchPage struct {
	Events  []apiEvent `json:"events"`
	Cursor  string     `json:"cursor"`
	HasMore bool       `json:"has_more"`
}

// apiEvent is the provider's record shape.
type apiEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Venue       string `json:"venue"`
	Organizer   string `json:"organizer"`
	URL         string `json:"url"`
	StartUTC    string `json:"start_utc"`
	EndUTC      string `json:"end_utc"`
}

// Fetch walks the result pages until the server reports no more results,
// the page cap fires, or an unauthorized response stops the loop. Records
// collected before a failure are always returned.
func (a *Adapter) Fetch(ctx context.Context) source.Result {
	var res source.Result

	params := a.baseParams()
	pageNum := 0
	for page := 1; page <= MaxPages; page++ {
		if params.Cursor == "" {
			pageNum++
			params.Page = pageNum
		} else {
			params.Page = 0
		}

		body, status, err := a.fetchPage(ctx, params)
		if err != nil {
			res.Notef("api: page %d: %v", page, err)
			return res
		}
		if status == http.StatusUnauthorized {
			res.Notef("api: unauthorized, stopping after %d record(s)", len(res.Records))
			return res
		}
		if status != http.StatusOK {
			res.Notef("api: page %d: status %d", page, status)
			return res
		}

		for _, rec := range body.Events {
			res.Records = append(res.Records, rec.raw())
		}

		logger.Debug("api page fetched", logger.Fields{
			"page":    page,
			"records": len(body.Events),
		})

		// Prefer the continuation cursor; fall back to counting pages
		// while the server reports more.
		params.Cursor = body.Cursor
		if body.Cursor == "" && !body.HasMore {
			return res
		}

		if page == MaxPages {
			res.Notef("api: page cap (%d) reached, results may be truncated", MaxPages)
			return res
		}
		a.client.Pause()
	}
	return res
}

// baseParams builds the query shared by every page request.
func (a *Adapter) baseParams() searchParams {
	now := a.now().UTC()
	params := searchParams{
		Query:    strings.Join(a.cfg.Keywords, " "),
		StartUTC: now.Format(time.RFC3339),
		EndUTC:   now.AddDate(0, 0, a.cfg.WindowDays).Format(time.RFC3339),
	}

	var address []string
	for _, part := range []string{a.cfg.City, a.cfg.State, a.cfg.Country} {
		if part != "" {
			address = append(address, part)
		}
	}
	if len(address) > 0 {
		params.Address = strings.Join(address, ", ")
		params.WithinMiles = a.cfg.WithinMiles
	}
	return params
}

// fetchPage performs one page request, retrying transport errors with a
// short fixed backoff.
func (a *Adapter) fetchPage(ctx context.Context, params searchParams) (searchPage, int, error) {
	var page searchPage
	var status int

	op := func() error {
		page = searchPage{}
		s := a.base.New().Get(searchPath).QueryStruct(params)
		req, err := s.Request()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building request: %w", err))
		}
		resp, err := s.Do(req.WithContext(ctx), &page, nil)
		if err != nil {
			return fmt.Errorf("requesting page: %w", err)
		}
		status = resp.StatusCode
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryWait), fetch.MaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return searchPage{}, 0, err
	}
	return page, status, nil
}

// raw converts a provider record into the shared raw shape. Timestamps the
// provider sends in a form we cannot read become nil, not dropped records.
func (e apiEvent) raw() event.Raw {
	return event.Raw{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Venue:       e.Venue,
		Organizer:   e.Organizer,
		URL:         e.URL,
		Start:       parseRFC3339(e.StartUTC),
		End:         parseRFC3339(e.EndUTC),
		Source:      SourceName,
	}
}

func parseRFC3339(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
