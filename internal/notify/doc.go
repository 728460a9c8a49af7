// Package notify announces finished runs to other processes.
//
// Each run produces one Event. With a NATS URL configured, events are
// published as JSON on a subject, so a site server can reload once the
// executor has updated the destination tree.
package notify
