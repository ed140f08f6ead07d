package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"scicalc/internal/calculator"
)

var tracer = otel.Tracer("session")

// ErrNotFound is returned for ids that were never created or were deleted.
var ErrNotFound = errors.New("session not found")

// session is one calculator plus the lock that serialises its tokens.
type session struct {
	mu      sync.Mutex
	machine *calculator.Machine
	deleted bool // set under mu by Delete
}

// Snapshot is a session's state at one point in time.
type Snapshot struct {
	ID    string
	State calculator.State
}

// Step is the outcome of a single token.
type Step struct {
	Token   calculator.Token
	Display calculator.Display
	Err     error
}

// PressResult is the outcome of one Press call.
type PressResult struct {
	Snapshot
	Steps []Step
}

// Manager owns all sessions. It is safe for concurrent use; tokens for one
// session are applied one at a time, different sessions proceed in parallel.
type Manager struct {
	store     Store
	logger    *zap.Logger
	angleMode calculator.AngleMode

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithAngleMode sets the angle mode new sessions start in.
func WithAngleMode(mode calculator.AngleMode) Option {
	return func(m *Manager) { m.angleMode = mode }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		logger:   zap.NewNop(),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session in the power-on state.
func (m *Manager) Create(ctx context.Context) (Snapshot, error) {
	id := uuid.NewString()
	s := &session{machine: calculator.New(calculator.WithAngleMode(m.angleMode))}

	state := s.machine.State()
	if err := m.store.Save(ctx, id, state); err != nil {
		return Snapshot{}, fmt.Errorf("save session %s: %w", id, err)
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", id), zap.Stringer("angle_mode", m.angleMode))
	return Snapshot{ID: id, State: state}, nil
}

// lookup returns the live session, loading it from the store if this
// process has not seen it yet.
func (m *Manager) lookup(ctx context.Context, id string) (*session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	state, ok, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile.
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	machine := calculator.New()
	machine.Restore(state)
	s = &session{machine: machine}
	m.sessions[id] = s
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{ID: id, State: s.machine.State()}, nil
}

// Press applies toks in order and persists the resulting state.
func (m *Manager) Press(ctx context.Context, id string, toks []calculator.Token) (PressResult, error) {
	ctx, span := tracer.Start(ctx, "session.press",
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.Int("session.tokens", len(toks)),
		),
	)
	defer span.End()

	s, err := m.lookup(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return PressResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		span.SetStatus(codes.Error, "session deleted")
		return PressResult{}, ErrNotFound
	}

	steps := make([]Step, 0, len(toks))
	for i, tok := range toks {
		_, tokSpan := tracer.Start(ctx, fmt.Sprintf("session.token.%d.%s", i, tok),
			trace.WithAttributes(
				attribute.Int("token.index", i),
				attribute.String("token.kind", tok.Kind.String()),
				attribute.String("token.label", tok.String()),
			),
		)

		d, err := s.machine.Step(tok)
		tokSpan.SetAttributes(attribute.String("calculator.display", d.String()))
		if err != nil {
			tokSpan.SetAttributes(attribute.String("calculator.error_kind", calculator.ErrorKind(err)))
			tokSpan.AddEvent("calculator.error", trace.WithAttributes(attribute.String("error", err.Error())))
			m.logger.Debug("token produced error display",
				zap.String("session_id", id),
				zap.Stringer("token", tok),
				zap.String("kind", calculator.ErrorKind(err)),
				zap.Error(err),
			)
		}
		tokSpan.End()

		steps = append(steps, Step{Token: tok, Display: d, Err: err})
	}

	state := s.machine.State()
	if err := m.store.Save(ctx, id, state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return PressResult{}, fmt.Errorf("save session %s: %w", id, err)
	}

	span.SetAttributes(attribute.String("calculator.display", state.Display.String()))
	span.SetStatus(codes.Ok, "")
	return PressResult{Snapshot: Snapshot{ID: id, State: state}, Steps: steps}, nil
}

// Delete forgets a session both in memory and in the store. It waits for a
// press in flight on the same session, and later presses see ErrNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return ErrNotFound
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	s.deleted = true

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// Count reports the sessions live in this process.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
