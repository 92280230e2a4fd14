package chat

import "errors"

var (
	ErrEmptyInput         = errors.New("at least one of query or image is required")
	ErrMissingSession     = errors.New("session is required")
	ErrEmptyAudio         = errors.New("no audio file provided")
	ErrUnsupportedAudio   = errors.New("unsupported audio format")
	ErrTranscription      = errors.New("could not transcribe audio")
	ErrEmptyTranscription = errors.New("no speech detected in audio")
)
