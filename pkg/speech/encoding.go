package speech

import (
	"mime"
	"strings"
)

type audioFormat struct {
	encoding   string
	sampleRate int64
}

var formats = map[string]audioFormat{
	"audio/wav":    {encoding: "LINEAR16"},
	"audio/x-wav":  {encoding: "LINEAR16"},
	"audio/wave":   {encoding: "LINEAR16"},
	"audio/flac":   {encoding: "FLAC"},
	"audio/x-flac": {encoding: "FLAC"},
	"audio/ogg":    {encoding: "OGG_OPUS", sampleRate: opusSampleRateHertz},
	"audio/opus":   {encoding: "OGG_OPUS", sampleRate: opusSampleRateHertz},
	"audio/webm":   {encoding: "WEBM_OPUS", sampleRate: opusSampleRateHertz},
	"video/webm":   {encoding: "WEBM_OPUS", sampleRate: opusSampleRateHertz},
	"audio/mpeg":   {encoding: "MP3"},
	"audio/mp3":    {encoding: "MP3"},
}

// Supported reports whether contentType maps to a recognizer encoding.
func Supported(contentType string) bool {
	_, ok := lookupFormat(contentType)
	return ok
}

func lookupFormat(contentType string) (audioFormat, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	f, ok := formats[mediaType]
	return f, ok
}
