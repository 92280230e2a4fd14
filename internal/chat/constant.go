package chat

const (
	// FallbackResponse is returned whenever retrieval or generation fails.
	FallbackResponse = "Sorry, I couldn't process that. Try WishChat Enterprise at info@goodwish.com.np!"

	// ImageOnlyQuery stands in for the query when only an image was sent.
	ImageOnlyQuery = "Describe the provided image"

	// ClearedMessage acknowledges a history clear.
	ClearedMessage = "Chat history cleared"

	DefaultRetrievalK   = 5
	DefaultSummaryTurns = 3
	DefaultMaxTokens    = 800
)

// AudioTurnContent is the stored form of a transcribed user turn.
func AudioTurnContent(language, text string) string {
	return "[Audio Transcription (" + language + ")]: " + text
}
