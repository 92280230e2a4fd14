package document

// Passage is a retrieved piece of grounding context.
type Passage struct {
	Content string
	Source  string
	Score   float64
}

// Chunk is one piece of a source document ready to be embedded.
type Chunk struct {
	ID      string
	Source  string
	Index   int
	Content string
}

// IngestInput lists the files to index.
// Recreate drops the whole collection first; otherwise each file's previous chunks are replaced.
type IngestInput struct {
	Paths    []string
	Recreate bool
}

type IngestOutput struct {
	Files   int
	Chunks  int
	Skipped []string
}
