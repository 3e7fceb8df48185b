// Package client talks to the quiz API over HTTP. Every method is one
// round trip; nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lshigami/quizforge/config"
	"github.com/lshigami/quizforge/internal/dto"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = config.DefaultAPIURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base, httpClient: hc}
}

func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	var out dto.QuizResponse
	if err := c.call(ctx, http.MethodPost, "/quizzes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]dto.QuizSummary, error) {
	out := []dto.QuizSummary{}
	if err := c.call(ctx, http.MethodGet, "/quizzes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetQuiz(ctx context.Context, id uint) (*dto.QuizResponse, error) {
	var out dto.QuizResponse
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/quizzes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/quizzes/%d", id), nil, nil)
}

// Ping reports whether the API and its database answer.
func (c *Client) Ping(ctx context.Context) error {
	var out dto.HealthResponse
	return c.call(ctx, http.MethodGet, "/health", nil, &out)
}

func (c *Client) GenerateDraft(ctx context.Context, topic string, count int) (*dto.CreateQuizRequest, error) {
	var out dto.CreateQuizRequest
	req := dto.GenerateQuizRequest{Topic: topic, QuestionCount: count}
	if err := c.call(ctx, http.MethodPost, "/quizzes/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Msg("Quiz API unreachable")
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e dto.ErrorResponse
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Message
			apiErr.Details = e.Details
		}
		log.Error().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
			Str("message", apiErr.Message).Msg("Quiz API call failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
