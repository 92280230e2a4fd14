package conversation

import "errors"

var (
	ErrInvalidTurnPair      = errors.New("conversation: turn pair must be (user, assistant)")
	ErrTransportUnavailable = errors.New("conversation: session transport unavailable")
	ErrInvalidConfig        = errors.New("conversation: invalid config")
)
