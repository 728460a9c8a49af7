// Package watch keeps a destination tree current while documents are edited.
//
// It runs an initial rebuild, then watches the source tree with fsnotify.
// Relevant events are debounced and funnelled into a single-flight worker, so
// at most one rebuild runs at a time and bursts collapse into one follow-up
// rebuild. A gocron job can trigger periodic rebuilds on filesystems without
// change notification, and the process metrics can be served over HTTP.
package watch
