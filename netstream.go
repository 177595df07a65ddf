// Package netstream is a poll-driven, non-blocking TCP transport: a Stream state
// machine per connection and a Host that multiplexes them into one event queue.
package netstream

const Version = "v0.1.0"
