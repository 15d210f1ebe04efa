package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = PollPolicy{Interval: time.Millisecond, MaxInterval: 2 * time.Millisecond, Timeout: time.Second}

func TestBridgeAsk_NewContext(t *testing.T) {
	backend := &scriptedBackend{
		statuses: []RunStatus{RunQueued, RunInProgress, RunCompleted},
		answer:   "Consejos:\n3. Lávate las manos\n3. Cepíllate los dientes",
	}
	b := NewBridge(backend, fastPolicy)

	got, err := b.Ask(context.Background(), "¿cómo me lavo las manos?", "")
	require.NoError(t, err)
	assert.Equal(t, "thread_new", got.Token)
	assert.Equal(t, "Consejos:\n1. Lávate las manos\n2. Cepíllate los dientes", got.Text)
	assert.Equal(t, 1, backend.created)
	assert.Equal(t, 3, backend.polled)
	assert.Equal(t, []string{"¿cómo me lavo las manos?"}, backend.posted)
}

func TestBridgeAsk_ReusesToken(t *testing.T) {
	backend := &scriptedBackend{statuses: []RunStatus{RunCompleted}, answer: "ok"}
	b := NewBridge(backend, fastPolicy)

	got, err := b.Ask(context.Background(), "hola", "thread_existing")
	require.NoError(t, err)
	assert.Equal(t, "thread_existing", got.Token)
	assert.Zero(t, backend.created)
	assert.Equal(t, []string{"thread_existing"}, backend.tokens)
}

func TestBridgeAsk_FailedRun(t *testing.T) {
	for _, status := range []RunStatus{RunFailed, RunExpired, RunCancelled} {
		t.Run(string(status), func(t *testing.T) {
			backend := &scriptedBackend{statuses: []RunStatus{RunInProgress, status}}
			b := NewBridge(backend, fastPolicy)

			got, err := b.Ask(context.Background(), "hola", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRunFailed)
			assert.Equal(t, "thread_new", got.Token)
			assert.Empty(t, got.Text)
		})
	}
}

func TestBridgeAsk_Timeout(t *testing.T) {
	backend := &scriptedBackend{statuses: []RunStatus{RunInProgress}}
	b := NewBridge(backend, PollPolicy{Interval: time.Millisecond, MaxInterval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond})

	_, err := b.Ask(context.Background(), "hola", "thread_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunTimeout)
	assert.Greater(t, backend.polled, 1)
}

func TestBridgeAsk_CallerCancellation(t *testing.T) {
	backend := &scriptedBackend{statuses: []RunStatus{RunInProgress}}
	b := NewBridge(backend, PollPolicy{Interval: time.Millisecond, MaxInterval: time.Millisecond, Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := b.Ask(ctx, "hola", "thread_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRunTimeout)
}

func TestBridgeAsk_BackendErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewBridge(&scriptedBackend{createErr: boom}, fastPolicy).Ask(context.Background(), "x", "")
	assert.ErrorIs(t, err, boom)

	_, err = NewBridge(&scriptedBackend{postErr: boom}, fastPolicy).Ask(context.Background(), "x", "t")
	assert.ErrorIs(t, err, boom)

	_, err = NewBridge(&scriptedBackend{statuses: []RunStatus{RunCompleted}, latestErr: ErrNoMessage}, fastPolicy).Ask(context.Background(), "x", "t")
	assert.ErrorIs(t, err, ErrNoMessage)

	_, err = NewBridge(&scriptedBackend{statuses: []RunStatus{RunCompleted}, answer: "  "}, fastPolicy).Ask(context.Background(), "x", "t")
	assert.ErrorIs(t, err, ErrNoMessage)

	_, err = NewBridge(nil, fastPolicy).Ask(context.Background(), "x", "t")
	assert.Error(t, err)
}

func TestPollPolicyNormalized(t *testing.T) {
	p := PollPolicy{Interval: 2 * time.Second, MaxInterval: time.Second}.normalized()
	assert.Equal(t, 2*time.Second, p.MaxInterval)
	assert.Equal(t, DefaultPollPolicy.Timeout, p.Timeout)

	p = PollPolicy{}.normalized()
	assert.Equal(t, DefaultPollPolicy, p)
}

func TestRunStatusTerminal(t *testing.T) {
	assert.True(t, RunCompleted.Terminal())
	assert.True(t, RunExpired.Terminal())
	assert.False(t, RunQueued.Terminal())
	assert.False(t, RunRequiresAction.Terminal())
}
