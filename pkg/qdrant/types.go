package qdrant

// CreateCollectionRequest defines the schema for creating a collection.
type CreateCollectionRequest struct {
	Name    string       `json:"-"` // in the URL
	Vectors VectorConfig `json:"vectors"`
}

// VectorConfig defines vector dimension and distance metric.
type VectorConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"` // "Cosine", "Euclid", "Dot"
}

// Point is a vector with its payload.
// Qdrant only accepts UUID strings or unsigned integers as ids.
type Point struct {
	ID      interface{}            `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

type UpsertPointsRequest struct {
	Points []Point `json:"points"`
}

// SearchRequest is the request for semantic search.
type SearchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	WithPayload    bool      `json:"with_payload"`
	Filter         *Filter   `json:"filter,omitempty"`
	ScoreThreshold *float64  `json:"score_threshold,omitempty"`
}

type SearchResponse struct {
	Result []ScoredPoint `json:"result"`
}

// ScoredPoint is a search result with similarity score.
type ScoredPoint struct {
	ID      interface{}            `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

// Filter is the subset of the Qdrant filter language used here: every condition must match.
type Filter struct {
	Must []FieldCondition `json:"must"`
}

type FieldCondition struct {
	Key   string     `json:"key"`
	Match MatchValue `json:"match"`
}

type MatchValue struct {
	Value interface{} `json:"value"`
}

// MatchField builds a single-condition filter.
func MatchField(key string, value interface{}) *Filter {
	return &Filter{Must: []FieldCondition{{Key: key, Match: MatchValue{Value: value}}}}
}

type DeletePointsRequest struct {
	Filter *Filter `json:"filter"`
}

type collectionExistsResponse struct {
	Result struct {
		Exists bool `json:"exists"`
	} `json:"result"`
}
