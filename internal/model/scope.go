package model

// Scope identifies the conversation a request belongs to.
// SessionID is issued by the session middleware and is opaque to everything else.
type Scope struct {
	SessionID string
}
