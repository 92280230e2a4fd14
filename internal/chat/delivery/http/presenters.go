package http

import "goodwish-chatbot/internal/chat"

// --- Request DTOs ---

type textReq struct {
	Query string `json:"query"`
}

func (r textReq) toInput() chat.QueryInput {
	return chat.QueryInput{Query: r.Query}
}

// queryReq is the multipart /query form. The image is read by processQueryReq.
type queryReq struct {
	Query string
	Image *chat.Image
}

func (r queryReq) validate() error {
	if r.Query == "" && r.Image == nil {
		return errEmptyInput
	}
	return nil
}

func (r queryReq) toInput() chat.QueryInput {
	return chat.QueryInput{Query: r.Query, Image: r.Image}
}

// --- Response DTOs ---

type queryResp struct {
	Response string `json:"response"`
}

func (h *handler) newQueryResp(out chat.QueryOutput) queryResp {
	return queryResp{Response: out.Response}
}

type audioResp struct {
	Transcription string `json:"transcription"`
	Language      string `json:"language"`
	Response      string `json:"response"`
}

func (h *handler) newAudioResp(out chat.AudioOutput) audioResp {
	return audioResp{
		Transcription: out.Transcription,
		Language:      out.Language,
		Response:      out.Response,
	}
}

type clearResp struct {
	Message string `json:"message"`
}
