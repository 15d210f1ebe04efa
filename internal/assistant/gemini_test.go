package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	answers []string
	err     error
	seen    [][]*genai.Content
	closed  bool
}

func (s *stubGenerator) Generate(_ context.Context, history []*genai.Content, text string) (string, error) {
	s.seen = append(s.seen, history)
	if s.err != nil {
		return "", s.err
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *stubGenerator) Close() error {
	s.closed = true
	return nil
}

func TestGeminiBackend_ThreadHistory(t *testing.T) {
	gen := &stubGenerator{answers: []string{"Hola, ¿en qué te ayudo?", "Lávate las manos 20 segundos."}}
	backend := newGeminiBackend(gen)
	bridge := NewBridge(backend, fastPolicy)
	ctx := context.Background()

	first, err := bridge.Ask(ctx, "hola", "")
	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿en qué te ayudo?", first.Text)
	assert.NotEmpty(t, first.Token)

	second, err := bridge.Ask(ctx, "¿cuánto tiempo me lavo las manos?", first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, "Lávate las manos 20 segundos.", second.Text)

	require.Len(t, gen.seen, 2)
	assert.Empty(t, gen.seen[0])
	require.Len(t, gen.seen[1], 2)
	assert.Equal(t, "user", gen.seen[1][0].Role)
	assert.Equal(t, "model", gen.seen[1][1].Role)

	require.NoError(t, backend.Close())
	assert.True(t, gen.closed)
}

func TestGeminiBackend_GenerateFailureFailsRun(t *testing.T) {
	backend := newGeminiBackend(&stubGenerator{err: errors.New("quota")})
	_, err := NewBridge(backend, fastPolicy).Ask(context.Background(), "hola", "")
	assert.ErrorIs(t, err, ErrRunFailed)
}

func TestGeminiBackend_UnknownTokenStartsOver(t *testing.T) {
	backend := newGeminiBackend(&stubGenerator{answers: []string{"ok"}})
	got, err := NewBridge(backend, fastPolicy).Ask(context.Background(), "hola", "gem_lost")
	require.NoError(t, err)
	assert.Equal(t, "gem_lost", got.Token)
	assert.Equal(t, "ok", got.Text)
}

func TestGeminiBackend_RunWithoutMessage(t *testing.T) {
	backend := newGeminiBackend(&stubGenerator{})
	token, err := backend.CreateContext(context.Background())
	require.NoError(t, err)
	_, err = backend.Run(context.Background(), token)
	assert.Error(t, err)

	_, err = backend.LatestMessage(context.Background(), token)
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestNewGeminiBackend_RequiresKey(t *testing.T) {
	_, err := NewGeminiBackend(context.Background(), " ", "", "")
	assert.Error(t, err)
}
