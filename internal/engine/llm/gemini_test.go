package llm

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

// mockGenerativeClient is a test double for GenerativeClient.
type mockGenerativeClient struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	callCount int
}

func (m *mockGenerativeClient) GenerateContent(_ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	idx := m.callCount
	m.callCount++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return nil, errors.New("no more responses configured")
}

// makeResponse creates a genai response with the given text part.
func makeResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: text},
			}}},
		},
	}
}

func TestGeminiClient_Explain_Success(t *testing.T) {
	mock := &mockGenerativeClient{
		responses: []*genai.GenerateContentResponse{
			makeResponse(`[{"path":"a.txt","hint":"take the feature side"}]`),
		},
	}
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return mock, nil
	}

	client := NewGeminiClient("fake-key", "test-model", factory)
	hints, err := client.Explain(context.Background(), "explain this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hints) != 1 {
		t.Fatalf("expected 1 hint, got %d", len(hints))
	}
	if hints[0].Path != "a.txt" {
		t.Errorf("expected path 'a.txt', got %q", hints[0].Path)
	}
	if hints[0].Hint != "take the feature side" {
		t.Errorf("unexpected hint: %q", hints[0].Hint)
	}
}

func TestGeminiClient_Explain_FactoryError(t *testing.T) {
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return nil, errors.New("factory boom")
	}

	client := NewGeminiClient("key", "", factory)
	_, err := client.Explain(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGeminiClient_Explain_RetriesOnTransientError(t *testing.T) {
	mock := &mockGenerativeClient{
		errs: []error{
			errors.New("transient failure"),
			nil,
		},
		responses: []*genai.GenerateContentResponse{
			nil,
			makeResponse(`[{"path":"a.txt","hint":"ok"}]`),
		},
	}
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return mock, nil
	}

	client := NewGeminiClient("key", "m", factory)
	hints, err := client.Explain(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hints) != 1 {
		t.Fatalf("expected 1 hint after retry, got %d", len(hints))
	}
	if mock.callCount != 2 {
		t.Errorf("expected 2 GenerateContent calls, got %d", mock.callCount)
	}
}

func TestGeminiClient_Explain_AllAttemptsExhausted(t *testing.T) {
	mock := &mockGenerativeClient{
		errs: []error{
			errors.New("fail 1"),
			errors.New("fail 2"),
			errors.New("fail 3"),
		},
	}
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return mock, nil
	}

	client := NewGeminiClient("key", "m", factory)
	_, err := client.Explain(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error after all retries exhausted")
	}
	if mock.callCount != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.callCount)
	}
}

func TestGeminiClient_Explain_MalformedJSON(t *testing.T) {
	mock := &mockGenerativeClient{
		responses: []*genai.GenerateContentResponse{
			makeResponse(`not valid json`),
		},
	}
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return mock, nil
	}

	client := NewGeminiClient("key", "m", factory)
	_, err := client.Explain(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestGeminiClient_Explain_EmptyResponse(t *testing.T) {
	mock := &mockGenerativeClient{
		responses: []*genai.GenerateContentResponse{
			{Candidates: []*genai.Candidate{}},
		},
	}
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return mock, nil
	}

	client := NewGeminiClient("key", "m", factory)
	_, err := client.Explain(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGeminiClient_Explain_ContextCancelled(t *testing.T) {
	mock := &mockGenerativeClient{
		errs: []error{errors.New("fail")},
	}
	factory := func(_ context.Context, _ string) (GenerativeClient, error) {
		return mock, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	client := NewGeminiClient("key", "m", factory)
	_, err := client.Explain(ctx, "prompt")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewGeminiClient_DefaultModel(t *testing.T) {
	client := NewGeminiClient("key", "", nil)
	if client.model != "gemini-3-pro" {
		t.Errorf("expected default model 'gemini-3-pro', got %q", client.model)
	}
	if client.factory == nil {
		t.Error("expected non-nil factory when nil is passed")
	}
}
