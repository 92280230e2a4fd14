package usecase

import (
	"strings"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/llmprovider"
)

const systemPromptTemplate = `### Role
You are WishChat, the assistant of Goodwish Engineering. You also handle greetings and small talk politely.

### Capabilities
1. Language: answer in English when the query is in English. When the query is in Nepali or Romanized Nepali, answer in Nepali script.
2. Scope: when the query is unrelated to the documents, say you do not have that information and offer help with the topics the context covers.
3. Length: keep answers between 80 and 100 words.
4. Greetings: reply to greetings such as "hello" or "नमस्ते" with a friendly greeting.

### Constraints
- Base answers on the context unless the user is greeting or making small talk.
- Answer in plain text without markdown.

Chat history:
{history}

Context:
{context}
`

func (uc *implUseCase) buildRequest(query string, image *chat.Image, history []model.Turn, passages []document.Passage) *llmprovider.Request {
	system := strings.NewReplacer(
		"{history}", summarize(history, uc.cfg.SummaryTurns),
		"{context}", joinPassages(passages),
	).Replace(systemPromptTemplate)

	user := llmprovider.Message{Role: "user"}
	if query != "" {
		user.Parts = append(user.Parts, llmprovider.Part{Text: query})
	}
	if image != nil {
		user.Parts = append(user.Parts, llmprovider.Part{InlineData: &llmprovider.Blob{
			MIMEType: image.MIMEType,
			Data:     image.Data,
		}})
		if query == "" {
			user.Parts = append([]llmprovider.Part{{Text: chat.ImageOnlyQuery}}, user.Parts...)
		}
	}

	return &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{Role: "system", Parts: []llmprovider.Part{{Text: system}}},
		Messages:          []llmprovider.Message{user},
		Temperature:       uc.cfg.Temperature,
		MaxTokens:         uc.cfg.MaxTokens,
	}
}

// summarize renders the last n turns as "role: content" lines.
func summarize(history []model.Turn, n int) string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	var b strings.Builder
	for _, t := range history {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		if t.HasImage {
			b.WriteString(" [Image provided]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func joinPassages(passages []document.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n")
}

var markupStripper = strings.NewReplacer("*", "", "#", "", "`", "", "~", "")

// stripMarkup removes markdown emphasis, heading, code and strike markers
// and leading quote markers, then trims surrounding whitespace.
func stripMarkup(s string) string {
	s = markupStripper.Replace(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		for strings.HasPrefix(trimmed, ">") {
			trimmed = strings.TrimLeft(trimmed[1:], " \t")
		}
		lines[i] = trimmed
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
