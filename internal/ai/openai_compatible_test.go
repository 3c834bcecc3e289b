package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestCompleteJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return
		}
		if req["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", req["model"])
		}
		format, _ := req["response_format"].(map[string]any)
		if format["type"] != "json_object" {
			t.Errorf("expected json_object response format, got %v", req["response_format"])
		}
		if req["temperature"] != 0.2 {
			t.Errorf("expected temperature 0.2, got %v", req["temperature"])
		}

		json.NewEncoder(w).Encode(completionBody(`{"response":"hello"}`))
	}))
	defer server.Close()

	client := NewOpenAICompatibleClient()
	temp := 0.2
	var out struct {
		Response string `json:"response"`
	}
	err := client.CompleteJSON(context.Background(), ChatConfig{
		BaseURL: server.URL + "/v1/",
		APIKey:  "test-key",
		Model:   "test-model",
	}, []ChatMessage{{Role: "user", Content: "hi"}}, &temp, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Response != "hello" {
		t.Errorf("expected hello, got %q", out.Response)
	}
}

func TestComplete_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := NewOpenAICompatibleClient().Complete(context.Background(), ChatConfig{
		BaseURL: server.URL,
		APIKey:  "k",
		Model:   "m",
	}, []ChatMessage{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAICompatibleClient().Complete(context.Background(), ChatConfig{
		BaseURL: server.URL,
		APIKey:  "k",
		Model:   "m",
	}, nil)
	if !errors.Is(err, ErrEmptyChoices) {
		t.Fatalf("expected ErrEmptyChoices, got %v", err)
	}
}

func TestCompleteJSON_InvalidContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionBody("not json"))
	}))
	defer server.Close()

	var out map[string]any
	err := NewOpenAICompatibleClient().CompleteJSON(context.Background(), ChatConfig{
		BaseURL: server.URL,
		APIKey:  "k",
		Model:   "m",
	}, nil, nil, &out)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestChatConfigEnabled(t *testing.T) {
	if (ChatConfig{}).Enabled() {
		t.Error("expected empty config to be disabled")
	}
	if (ChatConfig{APIKey: "  "}).Enabled() {
		t.Error("expected blank key to be disabled")
	}
	if !(ChatConfig{APIKey: "sk-1"}).Enabled() {
		t.Error("expected config with key to be enabled")
	}
}
