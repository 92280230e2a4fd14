package model

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session's history. Only the presence of an image is kept, never its bytes.
type Turn struct {
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	HasImage bool   `json:"has_image,omitempty"`
}

// UserTurn builds the user side of a turn pair.
func UserTurn(content string, hasImage bool) Turn {
	return Turn{Role: RoleUser, Content: content, HasImage: hasImage}
}

// AssistantTurn builds the assistant side of a turn pair.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}
