package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/conversation"
	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/llmprovider"
	"goodwish-chatbot/pkg/log"
	"goodwish-chatbot/pkg/speech"
)

type mockRetriever struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (m *mockRetriever) Search(ctx context.Context, query string, k int) ([]document.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return []document.Passage{{Content: "Goodwish Engineering builds software.", Source: "about.txt"}}, nil
}

type mockGenerator struct {
	calls    atomic.Int32
	answer   string
	err      error
	delay    time.Duration
	panicMsg string

	mu   sync.Mutex
	last *llmprovider.Request
}

func (m *mockGenerator) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.last = req
	m.mu.Unlock()
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{Content: llmprovider.TextMessage("assistant", m.answer), ProviderName: "mock"}, nil
}

func (m *mockGenerator) lastRequest() *llmprovider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

type mockTranscriber struct {
	transcript speech.Transcript
	err        error
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (speech.Transcript, error) {
	return m.transcript, m.err
}

type fixture struct {
	uc        *implUseCase
	conv      *conversation.Service
	retriever *mockRetriever
	llm       *mockGenerator
}

func newFixture(t *testing.T, llm *mockGenerator, tr speech.Transcriber, cfg Config) *fixture {
	t.Helper()
	conv, err := conversation.New(log.NewNop(), conversation.Config{})
	if err != nil {
		t.Fatalf("conversation.New: %v", err)
	}
	t.Cleanup(func() { _ = conv.Close(context.Background()) })

	retriever := &mockRetriever{}
	uc := New(log.NewNop(), conv, retriever, llm, tr, cfg).(*implUseCase)
	return &fixture{uc: uc, conv: conv, retriever: retriever, llm: llm}
}

func (f *fixture) history(t *testing.T, sessionID string, want int) []model.Turn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		turns := f.conv.History.Get(context.Background(), sessionID)
		if len(turns) == want || time.Now().After(deadline) {
			return turns
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// historyEndingWith waits until the session's newest user turn is query.
func (f *fixture) historyEndingWith(t *testing.T, sessionID, query string) []model.Turn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		turns := f.conv.History.Get(context.Background(), sessionID)
		if n := len(turns); n >= 2 && turns[n-2].Content == query {
			return turns
		}
		if time.Now().After(deadline) {
			t.Fatalf("history of %s never ended with %q: %+v", sessionID, query, turns)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

var sc = model.Scope{SessionID: "s1"}

func TestQuery_Hello(t *testing.T) {
	f := newFixture(t, &mockGenerator{answer: "**Hello!** How can I help you today?"}, nil, Config{})

	out, err := f.uc.Query(context.Background(), sc, chat.QueryInput{Query: "hello"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if out.Response != "Hello! How can I help you today?" {
		t.Errorf("unexpected response %q", out.Response)
	}
	if out.Cached || out.Fallback {
		t.Errorf("expected a fresh answer, got %+v", out)
	}

	turns := f.history(t, "s1", 2)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[0].Content != "hello" {
		t.Errorf("unexpected user turn %+v", turns[0])
	}
	if turns[1].Role != model.RoleAssistant || turns[1].Content != out.Response {
		t.Errorf("unexpected assistant turn %+v", turns[1])
	}

	req := f.llm.lastRequest()
	if req.Temperature != 0 || req.MaxTokens != chat.DefaultMaxTokens {
		t.Errorf("unexpected generation settings %v/%d", req.Temperature, req.MaxTokens)
	}
	if !strings.Contains(req.SystemInstruction.Parts[0].Text, "Goodwish Engineering builds software.") {
		t.Errorf("expected retrieved context in system prompt")
	}
}

func TestQuery_RepeatedRequestHitsCache(t *testing.T) {
	f := newFixture(t, &mockGenerator{answer: "We build software."}, nil, Config{})
	ctx := context.Background()

	first, err := f.uc.Query(ctx, sc, chat.QueryInput{Query: "What do you do?"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// A fresh session has the same empty history, so the key matches.
	second, err := f.uc.Query(ctx, model.Scope{SessionID: "s2"}, chat.QueryInput{Query: "What do you do?"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if !second.Cached || second.Response != first.Response {
		t.Errorf("expected cached answer %q, got %+v", first.Response, second)
	}
	if got := f.llm.calls.Load(); got != 1 {
		t.Errorf("expected 1 generation call, got %d", got)
	}
	if turns := f.history(t, "s2", 0); len(turns) != 0 {
		t.Errorf("cache hit must not append history, got %d turns", len(turns))
	}
}

func TestQuery_HistoryBoundedToSixTurns(t *testing.T) {
	f := newFixture(t, &mockGenerator{answer: "ok"}, nil, Config{})
	ctx := context.Background()

	var turns []model.Turn
	for i, q := range []string{"one", "two", "three", "four"} {
		if _, err := f.uc.Query(ctx, sc, chat.QueryInput{Query: q}); err != nil {
			t.Fatalf("Query(%q): %v", q, err)
		}
		// Appends are asynchronous; wait for this pair before the next request so each key sees it.
		turns = f.historyEndingWith(t, "s1", q)
		want := 2 * (i + 1)
		if want > conversation.DefaultMaxTurns {
			want = conversation.DefaultMaxTurns
		}
		if len(turns) != want {
			t.Fatalf("after %q: expected %d turns, got %d", q, want, len(turns))
		}
	}

	if turns[0].Content != "two" || turns[4].Content != "four" {
		t.Errorf("expected oldest pair evicted, got %+v", turns)
	}
}

func TestQuery_Validation(t *testing.T) {
	tcs := map[string]struct {
		sc    model.Scope
		input chat.QueryInput
		err   error
	}{
		"missing session": {
			sc:    model.Scope{},
			input: chat.QueryInput{Query: "hello"},
			err:   chat.ErrMissingSession,
		},
		"empty query": {
			sc:    sc,
			input: chat.QueryInput{Query: "   "},
			err:   chat.ErrEmptyInput,
		},
		"empty image": {
			sc:    sc,
			input: chat.QueryInput{Image: &chat.Image{MIMEType: "image/png"}},
			err:   chat.ErrEmptyInput,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, &mockGenerator{answer: "ok"}, nil, Config{})
			_, err := f.uc.Query(context.Background(), tc.sc, tc.input)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if f.llm.calls.Load() != 0 || len(f.retriever.queries) != 0 {
				t.Errorf("backend must not be called on invalid input")
			}
		})
	}
}

func TestQuery_ImageOnly(t *testing.T) {
	f := newFixture(t, &mockGenerator{answer: "A red logo."}, nil, Config{})

	out, err := f.uc.Query(context.Background(), sc, chat.QueryInput{
		Image: &chat.Image{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if out.Response != "A red logo." {
		t.Errorf("unexpected response %q", out.Response)
	}
	if f.retriever.queries[0] != chat.ImageOnlyQuery {
		t.Errorf("expected retrieval with %q, got %q", chat.ImageOnlyQuery, f.retriever.queries[0])
	}

	parts := f.llm.lastRequest().Messages[0].Parts
	if len(parts) != 2 || parts[0].Text != chat.ImageOnlyQuery || parts[1].InlineData == nil {
		t.Fatalf("unexpected user parts %+v", parts)
	}

	turns := f.history(t, "s1", 2)
	if len(turns) != 2 || !turns[0].HasImage {
		t.Errorf("expected user turn flagged with image, got %+v", turns)
	}
}

func TestQuery_FallbackIsNotCached(t *testing.T) {
	tcs := map[string]*mockGenerator{
		"provider error": {err: errors.New("upstream 503")},
		"timeout":        {answer: "late", delay: time.Second},
		"panic":          {panicMsg: "boom"},
		"empty answer":   {answer: "  ** ` "},
	}

	for name, llm := range tcs {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, llm, nil, Config{AnswerTimeout: 50 * time.Millisecond})

			out, err := f.uc.Query(context.Background(), sc, chat.QueryInput{Query: "hello"})
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if !out.Fallback || out.Response != chat.FallbackResponse {
				t.Fatalf("expected fallback, got %+v", out)
			}
			if f.conv.Responses.Len() != 0 {
				t.Errorf("fallback must not be cached")
			}
			time.Sleep(20 * time.Millisecond)
			if turns := f.conv.History.Get(context.Background(), "s1"); len(turns) != 0 {
				t.Errorf("fallback must not be appended, got %+v", turns)
			}
		})
	}
}

func TestQuery_PanicOutsideGenerationFallsBack(t *testing.T) {
	tcs := map[string]struct {
		conv      func(*conversation.Service) *conversation.Service
		wantCalls int32
	}{
		"response cache": {
			conv: func(s *conversation.Service) *conversation.Service {
				return &conversation.Service{History: s.History, Updater: s.Updater}
			},
			wantCalls: 0,
		},
		"history updater": {
			conv: func(s *conversation.Service) *conversation.Service {
				return &conversation.Service{History: s.History, Responses: s.Responses}
			},
			wantCalls: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, &mockGenerator{answer: "ok"}, nil, Config{})
			f.uc.conv = tc.conv(f.conv)

			out, err := f.uc.Query(context.Background(), sc, chat.QueryInput{Query: "hello"})
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if !out.Fallback || out.Response != chat.FallbackResponse {
				t.Fatalf("expected fallback, got %+v", out)
			}
			if got := f.llm.calls.Load(); got != tc.wantCalls {
				t.Errorf("expected %d generation calls, got %d", tc.wantCalls, got)
			}
		})
	}
}

func TestQuery_RetrievalFailureFallsBack(t *testing.T) {
	f := newFixture(t, &mockGenerator{answer: "ok"}, nil, Config{})
	f.retriever.err = errors.New("qdrant down")

	out, err := f.uc.Query(context.Background(), sc, chat.QueryInput{Query: "hello"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !out.Fallback {
		t.Errorf("expected fallback, got %+v", out)
	}
	if f.llm.calls.Load() != 0 {
		t.Errorf("generation must not run after a retrieval failure")
	}
}

func TestQueryAudio(t *testing.T) {
	t.Run("answers transcript", func(t *testing.T) {
		tr := &mockTranscriber{transcript: speech.Transcript{Text: " namaste ", Language: "ne-NP"}}
		f := newFixture(t, &mockGenerator{answer: "नमस्ते!"}, tr, Config{})

		out, err := f.uc.QueryAudio(context.Background(), sc, chat.AudioInput{Data: []byte("RIFF"), ContentType: "audio/wav"})
		if err != nil {
			t.Fatalf("QueryAudio: %v", err)
		}
		if out.Transcription != "namaste" || out.Language != "ne-NP" || out.Response != "नमस्ते!" {
			t.Errorf("unexpected output %+v", out)
		}

		turns := f.history(t, "s1", 2)
		if len(turns) != 2 || turns[0].Content != "[Audio Transcription (ne-NP)]: namaste" {
			t.Errorf("unexpected history %+v", turns)
		}
	})

	errCases := map[string]struct {
		tr   *mockTranscriber
		data []byte
		err  error
	}{
		"empty clip":     {tr: &mockTranscriber{}, err: chat.ErrEmptyAudio},
		"unsupported":    {tr: &mockTranscriber{err: speech.ErrUnsupportedFormat}, data: []byte("x"), err: chat.ErrUnsupportedAudio},
		"no speech":      {tr: &mockTranscriber{err: speech.ErrNoSpeech}, data: []byte("x"), err: chat.ErrEmptyTranscription},
		"blank text":     {tr: &mockTranscriber{transcript: speech.Transcript{Text: "  "}}, data: []byte("x"), err: chat.ErrEmptyTranscription},
		"backend failed": {tr: &mockTranscriber{err: errors.New("403")}, data: []byte("x"), err: chat.ErrTranscription},
	}
	for name, tc := range errCases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, &mockGenerator{answer: "ok"}, tc.tr, Config{})
			_, err := f.uc.QueryAudio(context.Background(), sc, chat.AudioInput{Data: tc.data, ContentType: "audio/wav"})
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if f.llm.calls.Load() != 0 {
				t.Errorf("generation must not run")
			}
		})
	}
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t, &mockGenerator{answer: "ok"}, nil, Config{})
	ctx := context.Background()

	if _, err := f.uc.Query(ctx, sc, chat.QueryInput{Query: "hello"}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	f.history(t, "s1", 2)

	if err := f.uc.ClearHistory(ctx, sc); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if turns := f.conv.History.Get(ctx, "s1"); len(turns) != 0 {
		t.Errorf("expected empty history, got %+v", turns)
	}
	if err := f.uc.ClearHistory(ctx, model.Scope{}); !errors.Is(err, chat.ErrMissingSession) {
		t.Errorf("expected ErrMissingSession, got %v", err)
	}
}

func TestStripMarkup(t *testing.T) {
	tcs := map[string]string{
		"**bold** and *it*":       "bold and it",
		"# Title\n> quoted\nbody": "Title\nquoted\nbody",
		"`code` ~~gone~~":         "code gone",
		"  plain  ":               "plain",
	}
	for in, want := range tcs {
		if got := stripMarkup(in); got != want {
			t.Errorf("stripMarkup(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	history := []model.Turn{
		model.UserTurn("first", false),
		model.AssistantTurn("one"),
		model.UserTurn("what is this", true),
		model.AssistantTurn("a logo"),
	}
	got := summarize(history, 3)
	want := "assistant: one\nuser: what is this [Image provided]\nassistant: a logo\n"
	if got != want {
		t.Errorf("summarize = %q, want %q", got, want)
	}
}
