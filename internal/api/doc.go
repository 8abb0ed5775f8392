// Package api exposes the note store and review scheduler over JSON/HTTP.
// Handlers decode and validate requests, call the note service, and map
// domain and storage errors to status codes without leaking internals.
package api
