package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/config"
	"github.com/learnifyhq/learnify-backend/internal/model"
)

// unreachableRedis returns a client that fails fast. The assistant
// treats history storage as best effort, so chats must still work.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func assistantBackend(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) == 0 || req.Messages[0].Role != "system" {
			t.Error("request does not start with the system prompt")
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": model.ChatMessage{Role: "assistant", Content: reply}},
			},
		})
	}))
}

func assistantConfig(baseURL string) *config.Config {
	return &config.Config{
		AssistantBaseURL:    baseURL,
		AssistantAPIKey:     "test-key",
		AssistantModel:      "llama3-8b-8192",
		AssistantMaxHistory: 40,
	}
}

func TestChatReturnsReply(t *testing.T) {
	backend := assistantBackend(t, "A stack is LIFO.", http.StatusOK)
	defer backend.Close()

	svc := NewAssistantService(assistantConfig(backend.URL), unreachableRedis(), zerolog.Nop())

	resp, err := svc.Chat(context.Background(), "user-1", "What is a stack?")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if resp.Response != "A stack is LIFO." {
		t.Errorf("Response = %q", resp.Response)
	}

	// History ends with the user turn followed by the assistant turn.
	n := len(resp.History)
	if n < 2 {
		t.Fatalf("history length = %d, want >= 2", n)
	}
	if resp.History[n-2].Role != "user" || resp.History[n-1].Role != "assistant" {
		t.Errorf("history tail roles = %s, %s", resp.History[n-2].Role, resp.History[n-1].Role)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	backend := assistantBackend(t, "", http.StatusInternalServerError)
	defer backend.Close()

	svc := NewAssistantService(assistantConfig(backend.URL), unreachableRedis(), zerolog.Nop())

	_, err := svc.Chat(context.Background(), "user-1", "hello")
	if !errors.Is(err, ErrAssistantUnavailable) {
		t.Errorf("Chat() error = %v, want ErrAssistantUnavailable", err)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer backend.Close()

	svc := NewAssistantService(assistantConfig(backend.URL), unreachableRedis(), zerolog.Nop())

	_, err := svc.Chat(context.Background(), "user-1", "hello")
	if !errors.Is(err, ErrAssistantUnavailable) {
		t.Errorf("Chat() error = %v, want ErrAssistantUnavailable", err)
	}
}
