package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/pkg/logging"
)

// Store persists widget states. Update must apply fn atomically with respect
// to other Updates of the same id and return the saved state.
type Store interface {
	Create(ctx context.Context, s *State) error
	Get(ctx context.Context, id string) (*State, error)
	Update(ctx context.Context, id string, fn func(*State) error) (*State, error)
}

// Observer records booking flow events. Implementations must be nil-safe.
type Observer interface {
	ObserveStep(step string)
	ObserveStaleLookup()
}

// Service runs widget operations against a Store.
type Service struct {
	store    Store
	looker   agenda.Looker
	observer Observer
	logger   *logging.Logger
	now      func() time.Time
	loc      *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the shop's timezone used for "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithObserver attaches metrics.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService builds a booking service.
func NewService(store Store, looker agenda.Looker, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		store:  store,
		looker: looker,
		logger: logger,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Start opens a new widget session.
func (s *Service) Start(ctx context.Context) (*State, error) {
	st := NewState(uuid.NewString(), s.clock())
	if err := s.store.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("booking: create session: %w", err)
	}
	s.observe(StepMonth)
	return st, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (*State, error) {
	return s.store.Get(ctx, id)
}

// SelectMonth applies a month selection.
func (s *Service) SelectMonth(ctx context.Context, id string, month int) (*State, error) {
	now := s.clock()
	st, err := s.store.Update(ctx, id, func(st *State) error {
		return st.SelectMonth(month, now)
	})
	if err != nil {
		return nil, err
	}
	s.observe(st.Step)
	return st, nil
}

// SelectDay applies a day selection.
func (s *Service) SelectDay(ctx context.Context, id string, day int) (*State, error) {
	st, err := s.store.Update(ctx, id, func(st *State) error {
		return st.SelectDay(day)
	})
	if err != nil {
		return nil, err
	}
	s.observe(st.Step)
	return st, nil
}

// SelectBarber stores the loading state, performs the lookup and stores its
// result unless a newer operation superseded it meanwhile. The returned state
// is whatever is current after the lookup.
func (s *Service) SelectBarber(ctx context.Context, id, barber string) (*State, error) {
	var (
		q   agenda.Query
		seq uint64
	)
	if _, err := s.store.Update(ctx, id, func(st *State) error {
		var err error
		q, seq, err = st.BeginLookup(barber)
		return err
	}); err != nil {
		return nil, err
	}

	res := s.looker.Lookup(ctx, q)

	applied := false
	st, err := s.store.Update(ctx, id, func(st *State) error {
		applied = st.CompleteLookup(seq, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Info("discarding superseded agenda result", "session_id", id, "seq", seq, "current_seq", st.LookupSeq)
		if s.observer != nil {
			s.observer.ObserveStaleLookup()
		}
	}
	return st, nil
}

// GoBack moves the session back to target.
func (s *Service) GoBack(ctx context.Context, id string, target Step) (*State, error) {
	st, err := s.store.Update(ctx, id, func(st *State) error {
		return st.GoBack(target)
	})
	if err != nil {
		return nil, err
	}
	s.observe(st.Step)
	return st, nil
}

func (s *Service) observe(step Step) {
	if s.observer != nil {
		s.observer.ObserveStep(step.String())
	}
}
