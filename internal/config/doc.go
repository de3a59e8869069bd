// Package config loads the service settings (server, database, auth, SM-2
// tuning, planner limits and job intervals) from defaults, an optional yaml
// file, a .env file and STUDYPLAN_-prefixed environment variables, and
// validates the result.
package config
