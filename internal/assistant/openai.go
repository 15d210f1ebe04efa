package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("assistant: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// OpenAIClient talks to the OpenAI Assistants API (threads, messages, runs).
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	assistantID string
	httpClient  *http.Client
}

type OpenAIOption func(*OpenAIClient)

func WithBaseURL(baseURL string) OpenAIOption {
	return func(c *OpenAIClient) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

func WithHTTPClient(httpClient *http.Client) OpenAIOption {
	return func(c *OpenAIClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewOpenAIClient creates a client bound to one assistant.
func NewOpenAIClient(apiKey, assistantID string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: openai api key is required")
	}
	if strings.TrimSpace(assistantID) == "" {
		return nil, errors.New("assistant: openai assistant id is required")
	}
	c := &OpenAIClient{
		baseURL:     defaultOpenAIBaseURL,
		apiKey:      apiKey,
		assistantID: assistantID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type threadResponse struct {
	ID string `json:"id"`
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	AssistantID string `json:"assistant_id"`
}

type runResponse struct {
	ID     string    `json:"id"`
	Status RunStatus `json:"status"`
}

type messageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

func (c *OpenAIClient) CreateContext(ctx context.Context) (string, error) {
	var out threadResponse
	if err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &out); err != nil {
		return "", fmt.Errorf("assistant: create thread: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("assistant: create thread: empty id")
	}
	return out.ID, nil
}

func (c *OpenAIClient) PostMessage(ctx context.Context, token, text string) error {
	path := "/threads/" + url.PathEscape(token) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, messageRequest{Role: "user", Content: text}, nil); err != nil {
		return fmt.Errorf("assistant: post message: %w", err)
	}
	return nil
}

func (c *OpenAIClient) Run(ctx context.Context, token string) (string, error) {
	var out runResponse
	path := "/threads/" + url.PathEscape(token) + "/runs"
	if err := c.do(ctx, http.MethodPost, path, runRequest{AssistantID: c.assistantID}, &out); err != nil {
		return "", fmt.Errorf("assistant: create run: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("assistant: create run: empty id")
	}
	return out.ID, nil
}

func (c *OpenAIClient) RunStatus(ctx context.Context, token, runID string) (RunStatus, error) {
	var out runResponse
	path := "/threads/" + url.PathEscape(token) + "/runs/" + url.PathEscape(runID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", fmt.Errorf("assistant: retrieve run: %w", err)
	}
	return out.Status, nil
}

// LatestMessage returns the text of the newest message in the thread.
func (c *OpenAIClient) LatestMessage(ctx context.Context, token string) (string, error) {
	var out messageList
	path := "/threads/" + url.PathEscape(token) + "/messages?limit=1&order=desc"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", fmt.Errorf("assistant: list messages: %w", err)
	}
	if len(out.Data) == 0 {
		return "", ErrNoMessage
	}
	var b strings.Builder
	for _, part := range out.Data[0].Content {
		if part.Type == "text" {
			b.WriteString(part.Text.Value)
		}
	}
	if b.Len() == 0 {
		return "", ErrNoMessage
	}
	return b.String(), nil
}

func (c *OpenAIClient) do(ctx context.Context, method, path string, in, out any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{StatusCode: res.StatusCode, URL: endpoint, Body: string(buf)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
