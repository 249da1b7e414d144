package core

import "context"

// Logger is the diagnostic trace used across the app.
// expected args: error, map[string]interface{}, session.Session
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Requester sends JSON requests to the tracker API.
// Do attaches the session's bearer token, DoPublic never does.
// A *json.RawMessage out receives the 2xx body undecoded.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out interface{}) error
	DoPublic(ctx context.Context, method, path string, body, out interface{}) error
}
