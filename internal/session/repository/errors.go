package repository

import "errors"

var (
	ErrEmptySessionID = errors.New("session repository: empty session id")
	ErrCorruptPayload = errors.New("session repository: corrupt session payload")
)
