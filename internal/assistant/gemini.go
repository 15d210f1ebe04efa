package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// generator produces the next model answer for a conversation history.
type generator interface {
	Generate(ctx context.Context, history []*genai.Content, text string) (string, error)
	Close() error
}

// GeminiBackend adapts Gemini's stateless chat to the threaded Backend contract.
// Threads live in process memory.
type GeminiBackend struct {
	gen generator

	mu      sync.Mutex
	threads map[string]*geminiThread
}

type geminiThread struct {
	history []*genai.Content
	pending []string
	runs    map[string]RunStatus
}

// NewGeminiBackend creates a Gemini-backed assistant. instructions become the
// model's system instruction.
func NewGeminiBackend(ctx context.Context, apiKey, modelID, instructions string) (*GeminiBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create gemini client: %w", err)
	}
	return newGeminiBackend(&genaiGenerator{client: client, modelID: modelID, instructions: instructions}), nil
}

func newGeminiBackend(gen generator) *GeminiBackend {
	return &GeminiBackend{gen: gen, threads: make(map[string]*geminiThread)}
}

func (b *GeminiBackend) CreateContext(context.Context) (string, error) {
	id := "gem_" + uuid.NewString()
	b.mu.Lock()
	b.threads[id] = &geminiThread{runs: make(map[string]RunStatus)}
	b.mu.Unlock()
	return id, nil
}

func (b *GeminiBackend) PostMessage(_ context.Context, token, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	th, ok := b.threads[token]
	if !ok {
		// Unknown after a restart; start the thread over under the same token.
		th = &geminiThread{runs: make(map[string]RunStatus)}
		b.threads[token] = th
	}
	th.pending = append(th.pending, text)
	return nil
}

// Run generates the answer synchronously, so the first status poll is terminal.
func (b *GeminiBackend) Run(ctx context.Context, token string) (string, error) {
	b.mu.Lock()
	th, ok := b.threads[token]
	if !ok || len(th.pending) == 0 {
		b.mu.Unlock()
		return "", fmt.Errorf("assistant: no pending message in thread %s", token)
	}
	text := strings.Join(th.pending, "\n")
	th.pending = nil
	history := append([]*genai.Content(nil), th.history...)
	b.mu.Unlock()

	runID := "run_" + uuid.NewString()
	answer, err := b.gen.Generate(ctx, history, text)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		th.runs[runID] = RunFailed
		return runID, nil
	}
	th.history = append(th.history,
		&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(text)}},
		&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(answer)}},
	)
	th.runs[runID] = RunCompleted
	return runID, nil
}

func (b *GeminiBackend) RunStatus(_ context.Context, token, runID string) (RunStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	th, ok := b.threads[token]
	if !ok {
		return "", fmt.Errorf("assistant: unknown thread %s", token)
	}
	status, ok := th.runs[runID]
	if !ok {
		return "", fmt.Errorf("assistant: unknown run %s", runID)
	}
	return status, nil
}

func (b *GeminiBackend) LatestMessage(_ context.Context, token string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	th, ok := b.threads[token]
	if !ok || len(th.history) == 0 {
		return "", ErrNoMessage
	}
	last := th.history[len(th.history)-1]
	if last.Role != "model" {
		return "", ErrNoMessage
	}
	return contentText(last), nil
}

// Close releases the Gemini client.
func (b *GeminiBackend) Close() error {
	if b.gen != nil {
		return b.gen.Close()
	}
	return nil
}

type genaiGenerator struct {
	client       *genai.Client
	modelID      string
	instructions string
}

func (g *genaiGenerator) Generate(ctx context.Context, history []*genai.Content, text string) (string, error) {
	model := g.client.GenerativeModel(g.modelID)
	if strings.TrimSpace(g.instructions) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(g.instructions))
	}
	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("assistant: gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("assistant: gemini returned no candidates")
	}
	out := strings.TrimSpace(contentText(resp.Candidates[0].Content))
	if out == "" {
		return "", errors.New("assistant: gemini returned empty content")
	}
	return out, nil
}

func (g *genaiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func contentText(c *genai.Content) string {
	var b strings.Builder
	for _, part := range c.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
