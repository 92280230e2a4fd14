package usecase

import (
	"context"
	"errors"
	"strings"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/speech"
)

// QueryAudio transcribes the clip and answers the transcript. The stored user
// turn is marked as an audio transcription.
func (uc *implUseCase) QueryAudio(ctx context.Context, sc model.Scope, input chat.AudioInput) (chat.AudioOutput, error) {
	if sc.SessionID == "" {
		return chat.AudioOutput{}, chat.ErrMissingSession
	}
	if len(input.Data) == 0 {
		return chat.AudioOutput{}, chat.ErrEmptyAudio
	}
	if uc.transcriber == nil {
		return chat.AudioOutput{}, chat.ErrTranscription
	}

	tr, err := uc.transcriber.Transcribe(ctx, input.Data, input.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, speech.ErrUnsupportedFormat):
			return chat.AudioOutput{}, chat.ErrUnsupportedAudio
		case errors.Is(err, speech.ErrNoSpeech):
			return chat.AudioOutput{}, chat.ErrEmptyTranscription
		case errors.Is(err, speech.ErrEmptyAudio):
			return chat.AudioOutput{}, chat.ErrEmptyAudio
		}
		uc.l.Warnf(ctx, "chat.usecase.QueryAudio: transcription failed: %v", err)
		return chat.AudioOutput{}, chat.ErrTranscription
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return chat.AudioOutput{}, chat.ErrEmptyTranscription
	}

	out := uc.answer(ctx, sc, text, nil, chat.AudioTurnContent(tr.Language, text))
	return chat.AudioOutput{
		Transcription: text,
		Language:      tr.Language,
		Response:      out.Response,
		Cached:        out.Cached,
		Fallback:      out.Fallback,
	}, nil
}
