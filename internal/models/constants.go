// Package models contains data types and constants for the teamlens service API.
package models

// API paths, relative to the configured server URL
const (
	PathUsers = "/users"
	PathUser  = "/users/%s"
	PathChat  = "/chat"
)

// DefaultServerURL is used when neither config nor environment set one
const DefaultServerURL = "http://localhost:8000"

// HeaderRequestID carries the per-request correlation id
const HeaderRequestID = "X-Request-ID"

// DefaultHeaders returns the headers sent with every API request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   "teamlens/0.1",
	}
}

// Graph kinds exposed on a user record
const (
	GraphTime     = "time"
	GraphClusters = "clusters"
)
