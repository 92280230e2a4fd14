package http

import (
	"errors"
	"net/http"

	"goodwish-chatbot/internal/chat"
	pkgErrors "goodwish-chatbot/pkg/errors"
	"goodwish-chatbot/pkg/response"
)

var (
	errEmptyInput  = pkgErrors.NewHTTPError(110001, "Query or image is required")
	errNotAnImage  = pkgErrors.NewHTTPError(110002, "Uploaded file must be an image")
	errImageTooBig = pkgErrors.NewHTTPError(110003, "Image is too large")
	errInvalidBody = pkgErrors.NewHTTPError(110004, "Invalid request body")
	errNoAudio     = pkgErrors.NewHTTPError(120001, "No audio file provided")
	errTranscribe  = pkgErrors.NewHTTPError(120002, "Could not transcribe audio")
	errAudioFormat = pkgErrors.NewHTTPError(120003, "Unsupported audio format")
	errNoSpeech    = pkgErrors.NewHTTPError(120004, "No speech detected in audio")
	errAudioTooBig = pkgErrors.NewHTTPError(120005, "Audio file is too large")
	errNoSession   = pkgErrors.NewHTTPErrorWithStatus(http.StatusUnauthorized, 130001, "Session is required")
	errInternal    = pkgErrors.NewHTTPErrorWithStatus(http.StatusInternalServerError, response.InternalServerErrorCode, response.DefaultErrorMessage)
)

// mapError translates use-case errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return errEmptyInput
	case errors.Is(err, chat.ErrMissingSession):
		return errNoSession
	case errors.Is(err, chat.ErrEmptyAudio):
		return errNoAudio
	case errors.Is(err, chat.ErrUnsupportedAudio):
		return errAudioFormat
	case errors.Is(err, chat.ErrEmptyTranscription):
		return errNoSpeech
	case errors.Is(err, chat.ErrTranscription):
		return errTranscribe
	default:
		return errInternal
	}
}
