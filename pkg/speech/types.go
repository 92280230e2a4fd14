package speech

import "errors"

const (
	DefaultLanguage      = "en-US"
	opusSampleRateHertz  = 48000
	defaultMaxAlternates = 1
)

// DefaultAlternativeLanguages are tried by auto-detection alongside DefaultLanguage.
var DefaultAlternativeLanguages = []string{"ne-NP"}

var (
	ErrEmptyAudio        = errors.New("speech: audio is empty")
	ErrUnsupportedFormat = errors.New("speech: unsupported audio format")
	ErrNoSpeech          = errors.New("speech: no speech recognized")
)

// Transcript is the recognized text and the detected language code.
type Transcript struct {
	Text       string
	Language   string
	Confidence float64
}

// Options tune recognition.
type Options struct {
	Language             string
	AlternativeLanguages []string
}
