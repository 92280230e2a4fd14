package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goodwish-chatbot/internal/chat"
)

// multipartOverhead leaves room for form fields around the file part.
const multipartOverhead = 1 << 20

// processQueryReq reads the query field and the optional image upload.
func (h *handler) processQueryReq(c *gin.Context) (queryReq, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxImageBytes+multipartOverhead)

	var req queryReq

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case isTooLarge(err):
		return req, errImageTooBig
	case err != nil:
		return req, errInvalidBody
	default:
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return req, errNotAnImage
		}
		data, err := readUpload(fh, h.cfg.MaxImageBytes)
		if err != nil {
			if errors.Is(err, errUploadTooLarge) {
				return req, errImageTooBig
			}
			return req, errInvalidBody
		}
		if len(data) > 0 {
			req.Image = &chat.Image{MIMEType: contentType, Data: data}
		}
	}

	req.Query = strings.TrimSpace(c.PostForm("query"))

	return req, req.validate()
}

// processTextReq binds the JSON body of the text-only endpoint.
func (h *handler) processTextReq(c *gin.Context) (textReq, error) {
	var req textReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errInvalidBody
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, errEmptyInput
	}
	return req, nil
}

// processAudioReq reads the audio_file upload.
func (h *handler) processAudioReq(c *gin.Context) (chat.AudioInput, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxAudioBytes+multipartOverhead)

	fh, err := c.FormFile("audio_file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return chat.AudioInput{}, errNoAudio
	case isTooLarge(err):
		return chat.AudioInput{}, errAudioTooBig
	case err != nil:
		return chat.AudioInput{}, errInvalidBody
	}

	data, err := readUpload(fh, h.cfg.MaxAudioBytes)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return chat.AudioInput{}, errAudioTooBig
		}
		return chat.AudioInput{}, errTranscribe
	}
	if len(data) == 0 {
		return chat.AudioInput{}, errNoAudio
	}

	return chat.AudioInput{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}

var errUploadTooLarge = errors.New("upload exceeds limit")

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, errUploadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	return data, nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
