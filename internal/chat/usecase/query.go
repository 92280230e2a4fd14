package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/conversation"
	"goodwish-chatbot/internal/model"
)

var errEmptyAnswer = errors.New("generation returned an empty answer")

// Query answers a text and/or image request.
func (uc *implUseCase) Query(ctx context.Context, sc model.Scope, input chat.QueryInput) (chat.QueryOutput, error) {
	if sc.SessionID == "" {
		return chat.QueryOutput{}, chat.ErrMissingSession
	}
	if input.Image != nil && len(input.Image.Data) == 0 {
		input.Image = nil
	}
	query := strings.TrimSpace(input.Query)
	if query == "" && input.Image == nil {
		return chat.QueryOutput{}, chat.ErrEmptyInput
	}

	return uc.answer(ctx, sc, query, input.Image, query), nil
}

// answer runs the cache/retrieval/generation pipeline. userContent is what
// gets stored as the user's turn. Any panic on the way yields the fallback answer.
func (uc *implUseCase) answer(ctx context.Context, sc model.Scope, query string, image *chat.Image, userContent string) (out chat.QueryOutput) {
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "chat.usecase.answer: recovered panic: %v", r)
			out = chat.QueryOutput{Response: chat.FallbackResponse, Fallback: true}
		}
	}()

	hasImage := image != nil

	// The key depends on history as it was before this turn.
	history := uc.conv.History.Get(ctx, sc.SessionID)
	key := conversation.ComputeKey(query, hasImage, history)

	if cached, ok := uc.conv.Responses.Get(key); ok {
		uc.l.Debugf(ctx, "chat.usecase.answer: cache hit")
		return chat.QueryOutput{Response: cached, Cached: true}
	}

	response, err := uc.generate(ctx, query, image, history)
	if err != nil {
		uc.l.Errorf(ctx, "chat.usecase.answer: %v", err)
		return chat.QueryOutput{Response: chat.FallbackResponse, Fallback: true}
	}

	uc.conv.Responses.Put(key, response)
	uc.conv.Updater.Enqueue(ctx, conversation.UpdateJob{
		SessionID: sc.SessionID,
		User:      model.UserTurn(userContent, hasImage),
		Assistant: model.AssistantTurn(response),
	})

	return chat.QueryOutput{Response: response}
}

// generate covers retrieval, generation and clean-up.
func (uc *implUseCase) generate(ctx context.Context, query string, image *chat.Image, history []model.Turn) (string, error) {
	if uc.cfg.AnswerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.AnswerTimeout)
		defer cancel()
	}

	searchQuery := query
	if searchQuery == "" {
		searchQuery = chat.ImageOnlyQuery
	}

	passages, err := uc.retriever.Search(ctx, searchQuery, uc.cfg.RetrievalK)
	if err != nil {
		return "", fmt.Errorf("retrieval: %w", err)
	}

	resp, err := uc.llm.GenerateContent(ctx, uc.buildRequest(query, image, history, passages))
	if err != nil {
		return "", fmt.Errorf("generation: %w", err)
	}
	if resp == nil {
		return "", errEmptyAnswer
	}

	answer := stripMarkup(resp.Text())
	if answer == "" {
		return "", errEmptyAnswer
	}
	return answer, nil
}
