// Package api exposes the flashcard, learning item and profile operations
// over HTTP. Handlers decode and validate requests, call the services, and
// translate domain errors into status codes with sanitised messages.
package api
