package voyage_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goodwish-chatbot/pkg/voyage"
)

func TestVoyageClient(t *testing.T) {
	var lastReq voyage.EmbedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-voyage-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Provided API key is invalid."}`))
			return
		}
		if r.URL.Path != "/embeddings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if len(lastReq.Input) > 0 && lastReq.Input[0] == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		// Returned out of order on purpose.
		w.WriteHeader(http.StatusOK)
		if len(lastReq.Input) == 2 {
			w.Write([]byte(`{"data": [
				{"embedding": [0.4, 0.5], "index": 1},
				{"embedding": [0.1, 0.2], "index": 0}
			]}`))
			return
		}
		w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2, 0.3], "index": 0}]}`))
	}))
	defer ts.Close()

	client, _ := voyage.New("test-voyage-key")
	client.WithBaseURL(ts.URL).WithModel("custom-model")

	t.Run("Success Flow", func(t *testing.T) {
		emb, err := client.Embed(context.Background(), []string{"Hello world"}, voyage.InputTypeQuery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(emb) != 1 || len(emb[0]) != 3 {
			t.Fatalf("expected 1 embed with 3 dims, got len=%d", len(emb))
		}
		if lastReq.Model != "custom-model" || lastReq.InputType != voyage.InputTypeQuery {
			t.Errorf("unexpected request: %+v", lastReq)
		}
	})

	t.Run("Batch keeps input order", func(t *testing.T) {
		emb, err := client.Embed(context.Background(), []string{"first", "second"}, voyage.InputTypeDocument)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if emb[0][0] != 0.1 || emb[1][0] != 0.4 {
			t.Errorf("embeddings not reordered by index: %v", emb)
		}
	})

	t.Run("Server Error Flow", func(t *testing.T) {
		_, err := client.Embed(context.Background(), []string{"cause_500"}, voyage.InputTypeNone)
		if err == nil {
			t.Fatalf("expected error from 500 response")
		}
	})

	t.Run("Unauthorized Error Flow", func(t *testing.T) {
		badClient, _ := voyage.New("bad-key")
		badClient.WithBaseURL(ts.URL)
		_, err := badClient.Embed(context.Background(), []string{"Hello world"}, voyage.InputTypeQuery)
		if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid") {
			t.Fatalf("expected 401 error with detail, got %v", err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		if _, err := client.Embed(context.Background(), nil, voyage.InputTypeQuery); err == nil {
			t.Errorf("expected error for empty input")
		}
		if _, err := voyage.New(""); err == nil {
			t.Errorf("expected error for empty API key")
		}
	})
}
