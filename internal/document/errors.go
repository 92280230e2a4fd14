package document

import "errors"

var (
	ErrEmptyQuery   = errors.New("document: empty search query")
	ErrNoDocuments  = errors.New("document: no documents were loaded")
	ErrNoPathsGiven = errors.New("document: no paths given")
)
