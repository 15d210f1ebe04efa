package assistant

import (
	"context"
	"sync"
)

// scriptedBackend returns statuses in order, then repeats the last one.
type scriptedBackend struct {
	mu        sync.Mutex
	statuses  []RunStatus
	answer    string
	createErr error
	postErr   error
	latestErr error

	created int
	posted  []string
	polled  int
	tokens  []string
}

func (s *scriptedBackend) CreateContext(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created++
	return "thread_new", nil
}

func (s *scriptedBackend) PostMessage(_ context.Context, token, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.postErr != nil {
		return s.postErr
	}
	s.tokens = append(s.tokens, token)
	s.posted = append(s.posted, text)
	return nil
}

func (s *scriptedBackend) Run(context.Context, string) (string, error) {
	return "run_1", nil
}

func (s *scriptedBackend) RunStatus(ctx context.Context, _, _ string) (RunStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	idx := s.polled
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	s.polled++
	return s.statuses[idx], nil
}

func (s *scriptedBackend) LatestMessage(context.Context, string) (string, error) {
	if s.latestErr != nil {
		return "", s.latestErr
	}
	return s.answer, nil
}
