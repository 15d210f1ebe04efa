package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/botica-chatbot/internal/observability/metrics"
	"github.com/wolfman30/botica-chatbot/pkg/logging"
)

// PollPolicy bounds how long a run is waited on. The delay between status
// polls starts at Interval and doubles up to MaxInterval; the whole turn gives
// up after Timeout.
type PollPolicy struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Timeout     time.Duration
}

// DefaultPollPolicy polls every second at first and gives up after a minute.
var DefaultPollPolicy = PollPolicy{Interval: time.Second, MaxInterval: 4 * time.Second, Timeout: 60 * time.Second}

func (p PollPolicy) normalized() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultPollPolicy.Interval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = DefaultPollPolicy.MaxInterval
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultPollPolicy.Timeout
	}
	return p
}

// Answer is a cleaned assistant reply and the token continuing its conversation.
type Answer struct {
	Text  string
	Token string
}

// Bridge runs one question/answer turn against a Backend.
type Bridge struct {
	backend Backend
	policy  PollPolicy
	logger  *logging.Logger
	metrics *metrics.ChatMetrics
	tracer  trace.Tracer
}

type BridgeOption func(*Bridge)

func WithLogger(logger *logging.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithMetrics(m *metrics.ChatMetrics) BridgeOption {
	return func(b *Bridge) { b.metrics = m }
}

func WithTracer(tracer trace.Tracer) BridgeOption {
	return func(b *Bridge) {
		if tracer != nil {
			b.tracer = tracer
		}
	}
}

func NewBridge(backend Backend, policy PollPolicy, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		backend: backend,
		policy:  policy.normalized(),
		logger:  logging.Default(),
		tracer:  otel.Tracer("botica.internal.assistant"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ask posts text to the conversation identified by token, creating one when
// token is empty, waits for the run and returns the renumbered answer.
func (b *Bridge) Ask(ctx context.Context, text, token string) (Answer, error) {
	ctx, span := b.tracer.Start(ctx, "assistant.ask", trace.WithAttributes(
		attribute.Bool("assistant.new_context", token == ""),
	))
	defer span.End()

	started := time.Now()
	answer, err := b.ask(ctx, text, token)
	b.metrics.ObserveCall("assistant", "ask", started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return answer, err
	}
	return answer, nil
}

func (b *Bridge) ask(parent context.Context, text, token string) (Answer, error) {
	if b.backend == nil {
		return Answer{Token: token}, errors.New("assistant: backend not configured")
	}
	ctx, cancel := context.WithTimeout(parent, b.policy.Timeout)
	defer cancel()

	if token == "" {
		created, err := b.backend.CreateContext(ctx)
		if err != nil {
			return Answer{}, b.timeoutOr(parent, err)
		}
		token = created
	}
	out := Answer{Token: token}

	if err := b.backend.PostMessage(ctx, token, text); err != nil {
		return out, b.timeoutOr(parent, err)
	}
	runID, err := b.backend.Run(ctx, token)
	if err != nil {
		return out, b.timeoutOr(parent, err)
	}

	status, polls, err := b.wait(ctx, token, runID)
	b.metrics.ObserveAssistantPolls(string(status), polls)
	if err != nil {
		return out, b.timeoutOr(parent, err)
	}
	if status != RunCompleted {
		b.logger.Warn("assistant: run ended without completing", "run_id", runID, "status", status, "polls", polls)
		return out, fmt.Errorf("%w: status %s", ErrRunFailed, status)
	}

	msg, err := b.backend.LatestMessage(ctx, token)
	if err != nil {
		return out, b.timeoutOr(parent, err)
	}
	if strings.TrimSpace(msg) == "" {
		return out, ErrNoMessage
	}
	out.Text = RenumberLists(msg)
	b.logger.Debug("assistant: run completed", "run_id", runID, "polls", polls)
	return out, nil
}

// wait polls the run until it reaches a terminal status or ctx ends.
func (b *Bridge) wait(ctx context.Context, token, runID string) (RunStatus, int, error) {
	delay := b.policy.Interval
	polls := 0
	for {
		status, err := b.backend.RunStatus(ctx, token, runID)
		polls++
		if err != nil {
			return status, polls, err
		}
		if status.Terminal() {
			return status, polls, nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return status, polls, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > b.policy.MaxInterval {
			delay = b.policy.MaxInterval
		}
	}
}

// timeoutOr maps an expired turn budget to ErrRunTimeout. Cancellation of the
// caller's own context is returned unchanged.
func (b *Bridge) timeoutOr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w after %s", ErrRunTimeout, b.policy.Timeout)
	}
	return err
}
