// Package ics implements the calendar-feed source adapter.
//
// The adapter fetches each configured feed, unfolds the calendar text and
// extracts one raw record per VEVENT block. Within a block the last
// occurrence of a duplicated property wins. Timestamps are accepted in
// three forms: trailing Z (absolute UTC), floating date-times (treated as
// UTC so reruns are deterministic) and date-only values (midnight UTC).
// An unparseable timestamp yields a record with no start rather than a
// dropped record.
package ics
