package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient() *Client {
	return New(WithDelay(0), WithSleeper(func(time.Duration) {}))
}

func TestGetReturnsStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("user agent = %q, expected %q", got, UserAgent)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	status, body, err := testClient().Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, expected 200", status)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q, expected hello", body)
	}
}

func TestGetNon2xxIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	status, _, err := testClient().Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("non-2xx must be reported via status, got error: %v", err)
	}
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, expected 503", status)
	}
}

func TestGetRetriesTransportErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Drop the first connection mid-response.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("hijacking unsupported")
			}
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	status, body, err := testClient().Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if status != http.StatusOK || string(body) != "recovered" {
		t.Errorf("got status %d body %q after retry", status, body)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("server saw %d calls, expected 2", n)
	}
}

func TestGetRetriesAreBounded(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		hj := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		conn.Close()
	}))
	defer server.Close()

	_, _, err := testClient().Get(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error when every attempt fails")
	}
	if n := atomic.LoadInt32(&calls); n != MaxRetries+1 {
		t.Errorf("server saw %d calls, expected %d", n, MaxRetries+1)
	}
}
