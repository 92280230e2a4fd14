package chat

// Image is an uploaded image. Only its presence is remembered in history.
type Image struct {
	MIMEType string
	Data     []byte
}

type QueryInput struct {
	Query string
	Image *Image
}

// QueryOutput carries the answer. Cached marks a replayed answer; Fallback
// marks the apology returned after an upstream failure.
type QueryOutput struct {
	Response string
	Cached   bool
	Fallback bool
}

type AudioInput struct {
	Data        []byte
	ContentType string
}

type AudioOutput struct {
	Transcription string
	Language      string
	Response      string
	Cached        bool
	Fallback      bool
}
