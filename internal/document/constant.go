package document

const (
	DefaultCollection   = "goodwish_chatbot"
	DefaultSearchK      = 5
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)
