package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/config"
	"github.com/learnifyhq/learnify-backend/internal/model"
)

// ErrAssistantUnavailable is returned when the upstream model API fails.
var ErrAssistantUnavailable = errors.New("assistant unavailable")

const assistantSystemPrompt = "You are a helpful study assistant for an " +
	"e-learning platform. Clear the student's doubts directly and keep " +
	"every answer to five sentences or less."

// AssistantService proxies chat turns to an OpenAI-compatible completion
// API and keeps per-user conversation history in Redis.
type AssistantService struct {
	cfg    *config.Config
	rdb    *redis.Client
	client *http.Client
	log    zerolog.Logger
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *AssistantService {
	return &AssistantService{
		cfg:    cfg,
		rdb:    rdb,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log.With().Str("component", "assistant_service").Logger(),
	}
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message model.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends one user message, with the stored conversation as context,
// and returns the model's reply plus the updated history.
func (s *AssistantService) Chat(ctx context.Context, userID, message string) (*model.ChatResponse, error) {
	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load assistant history")
		history = nil
	}

	messages := make([]model.ChatMessage, 0, len(history)+2)
	messages = append(messages, model.ChatMessage{Role: "system", Content: assistantSystemPrompt})
	messages = append(messages, history...)
	userTurn := model.ChatMessage{Role: "user", Content: message}
	messages = append(messages, userTurn)

	reply, err := s.complete(ctx, messages)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Assistant completion failed")
		return nil, ErrAssistantUnavailable
	}

	assistantTurn := model.ChatMessage{Role: "assistant", Content: reply}
	if err := s.appendHistory(ctx, userID, userTurn, assistantTurn); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to store assistant history")
	}

	return &model.ChatResponse{
		Response: reply,
		History:  append(append(history, userTurn), assistantTurn),
	}, nil
}

// History returns the stored conversation for a user.
func (s *AssistantService) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if history == nil {
		history = []model.ChatMessage{}
	}
	return history, nil
}

// Reset drops the stored conversation so the next chat starts fresh.
func (s *AssistantService) Reset(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, config.CacheKey.AssistantHistoryKey(userID)).Err(); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}

func (s *AssistantService) complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       s.cfg.AssistantModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := s.cfg.AssistantBaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.AssistantAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion api status %d: %s", resp.StatusCode, raw)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("completion api returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (s *AssistantService) loadHistory(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	raw, err := s.rdb.LRange(ctx, config.CacheKey.AssistantHistoryKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	history := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// Skip corrupt entries instead of failing the whole chat.
			s.log.Warn().Err(err).Msg("Skipping corrupt history entry")
			continue
		}
		history = append(history, msg)
	}
	return history, nil
}

func (s *AssistantService) appendHistory(ctx context.Context, userID string, turns ...model.ChatMessage) error {
	key := config.CacheKey.AssistantHistoryKey(userID)

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		encoded, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		values = append(values, encoded)
	}

	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, key, values...)
	// Keep only the newest turns so the context window stays bounded.
	pipe.LTrim(ctx, key, int64(-s.cfg.AssistantMaxHistory), -1)
	_, err := pipe.Exec(ctx)
	return err
}
