package speech

import "context"

// Transcriber converts an audio clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (Transcript, error)
}
