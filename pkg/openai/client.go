// Package openai is a minimal client for the OpenAI transcription and chat completion endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("openai api error: status %d type %s message %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("openai api error: status %d message %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client. A zero timeout means no client-side timeout.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Transcribe posts audio to /audio/transcriptions and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, model, language, filename string, audio []byte) (string, error) {
	if err := c.ensureAPIKey(); err != nil {
		return "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := writer.WriteField("model", model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", decodeAPIError(resp)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	return payload.Text, nil
}

// ChatComplete posts to /chat/completions and returns the first choice's content.
func (c *Client) ChatComplete(ctx context.Context, chat ChatRequest) (string, error) {
	if err := c.ensureAPIKey(); err != nil {
		return "", err
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(chat); err != nil {
		return "", fmt.Errorf("encode chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", buf)
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", decodeAPIError(resp)
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	return response.Choices[0].Message.Content, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Type: apiErr.Error.Type, Message: apiErr.Error.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

func (c *Client) ensureAPIKey() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return errors.New("openai api key is not configured")
	}
	return nil
}
