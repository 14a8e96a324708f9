// Package console is an audit sink printing one line per event, for operators
// watching a terminal. Error events print as "ERROR: <message>", the rest as
// "AUDIT: <message>".
package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	audit "labcheckout/pkg/platform/audit"
)

type Store struct {
	mu      sync.Mutex
	w       io.Writer
	actions map[string]struct{}
}

// Option configures the console Store.
type Option func(*Store)

// WithActions limits printing to the given actions. Without it every event prints.
func WithActions(actions ...string) Option {
	return func(s *Store) {
		s.actions = make(map[string]struct{}, len(actions))
		for _, a := range actions {
			s.actions[a] = struct{}{}
		}
	}
}

func New(w io.Writer, opts ...Option) *Store {
	s := &Store{w: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	if s.actions != nil {
		if _, ok := s.actions[event.Action]; !ok {
			return nil
		}
	}
	prefix := "AUDIT"
	if event.Severity == audit.SeverityError {
		prefix = "ERROR"
	}
	msg := event.Message
	if msg == "" {
		msg = event.Action
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "%s: %s\n", prefix, msg); err != nil {
		return fmt.Errorf("writing audit line: %w", err)
	}
	return nil
}

var _ audit.Store = (*Store)(nil)
