package service

import (
	"context"
	"fmt"

	"pageturn/internal/modules/session/domain"
	sessionout "pageturn/internal/modules/session/port/out"
	"pageturn/internal/platform/clock"
	"pageturn/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
	store sessionout.SessionStore
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, store: store}
}

// Start inserts a new open session.
func (s *SessionService) Start(ctx context.Context, input domain.CreateInput) (domain.Session, error) {
	session, err := domain.Create(input, s.clock.Now(), s.idGen.New)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Close writes the terminal state of a session. This write is the
// authoritative completion; any failure here aborts the finish call.
func (s *SessionService) Close(ctx context.Context, session domain.Session, actualEndPage int, durationMinutes float64) (domain.Session, error) {
	closed, err := session.Close(actualEndPage, durationMinutes, s.clock.Now())
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Update(ctx, closed); err != nil {
		return domain.Session{}, fmt.Errorf("close session: %w", err)
	}
	return closed, nil
}
