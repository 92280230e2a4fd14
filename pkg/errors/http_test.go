package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAsHTTPError(t *testing.T) {
	base := NewHTTPError(110001, "query or image is required")
	wrapped := fmt.Errorf("handler: %w", base)

	he, ok := AsHTTPError(wrapped)
	if !ok {
		t.Fatalf("expected wrapped HTTPError to be found")
	}
	if he.StatusCode != http.StatusBadRequest || he.Code != 110001 {
		t.Errorf("unexpected error fields: %+v", he)
	}

	if _, ok := AsHTTPError(fmt.Errorf("plain")); ok {
		t.Errorf("plain errors must not match")
	}
}

func TestNewHTTPErrorWithStatus(t *testing.T) {
	he := NewHTTPErrorWithStatus(http.StatusTooManyRequests, 429, "slow down")
	if he.Error() != "429: slow down" {
		t.Errorf("unexpected message %q", he.Error())
	}
}
