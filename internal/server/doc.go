// Package server implements the HTTP API using Echo.
//
// Routes: auth (Spotify OAuth + logout), user profile, roast generation and
// shareable roast lookup, health probes and Prometheus metrics. Handlers
// split by concern: handlers_auth.go, handlers_api.go, handlers_health.go.
package server
