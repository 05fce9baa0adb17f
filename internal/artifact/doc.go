// Package artifact assembles and writes the run's output: one JSON
// payload with meta, events and notes that is producible on every run,
// plus optional CSV, Markdown and iCalendar transcodes of the event list.
package artifact
