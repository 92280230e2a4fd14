package http

import (
	"github.com/gin-gonic/gin"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/middleware"
	"goodwish-chatbot/pkg/response"
)

// Query godoc
// @Summary     Ask a question
// @Description Answers a text query and/or an image using the indexed documents and the session history.
// @Tags        Chat
// @Accept      multipart/form-data
// @Produce     json
// @Param       query formData string false "User query"
// @Param       image formData file   false "Image (image/*)"
// @Success     200 {object} queryResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /api/v1/chat/query [POST]
func (h *handler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processQueryReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Query(ctx, middleware.GetScope(c), req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.Query: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newQueryResp(output))
}

// QueryText godoc
// @Summary     Ask a text question
// @Description Text-only variant of the query endpoint.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body body textReq true "Query"
// @Success     200 {object} queryResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /api/v1/chat/text [POST]
func (h *handler) QueryText(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processTextReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Query(ctx, middleware.GetScope(c), req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.Query: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newQueryResp(output))
}

// QueryAudio godoc
// @Summary     Ask by voice
// @Description Transcribes an audio clip (English or Nepali) and answers the transcript.
// @Tags        Chat
// @Accept      multipart/form-data
// @Produce     json
// @Param       audio_file formData file true "Audio clip (wav, flac, ogg, webm, mp3)"
// @Success     200 {object} audioResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /api/v1/chat/audio [POST]
func (h *handler) QueryAudio(c *gin.Context) {
	ctx := c.Request.Context()

	input, err := h.processAudioReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.QueryAudio(ctx, middleware.GetScope(c), input)
	if err != nil {
		h.l.Warnf(ctx, "uc.QueryAudio: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newAudioResp(output))
}

// ClearHistory godoc
// @Summary     Clear chat history
// @Description Drops the conversation history of the current session.
// @Tags        Chat
// @Produce     json
// @Success     200 {object} clearResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat/clear-history [POST]
func (h *handler) ClearHistory(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.ClearHistory(ctx, middleware.GetScope(c)); err != nil {
		h.l.Errorf(ctx, "uc.ClearHistory: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, clearResp{Message: chat.ClearedMessage})
}
