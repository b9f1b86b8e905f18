package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	shelfdto "pageturn/internal/modules/shelf/dto"
	shelfin "pageturn/internal/modules/shelf/port/in"
	"pageturn/internal/modules/session/domain"
	sessiondto "pageturn/internal/modules/session/dto"
	sessionin "pageturn/internal/modules/session/port/in"
	sessionout "pageturn/internal/modules/session/port/out"
	"pageturn/internal/modules/session/service"
	apperrors "pageturn/internal/platform/errors"
	"pageturn/internal/platform/tx"
)

type Interactor struct {
	svc   *service.SessionService
	store sessionout.SessionStore
	shelf shelfin.Usecase
	txm   tx.Manager
}

func NewInteractor(svc *service.SessionService, store sessionout.SessionStore, shelf shelfin.Usecase, txm tx.Manager) sessionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, store: store, shelf: shelf, txm: txm}
}

// Start opens a new reading session against a shelf entry. At most one
// session may be open per shelf entry; the check and the insert run in one
// transaction so concurrent starts cannot both slip through.
func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	if input.UserID == "" || input.ShelfEntryID == "" || input.BookID == "" {
		return sessiondto.SessionOutput{}, fmt.Errorf("user, shelf entry and book ids are required: %w", apperrors.ErrInvalidInput)
	}

	if _, err := i.shelf.EntryByID(ctx, input.UserID, input.ShelfEntryID); err != nil {
		return sessiondto.SessionOutput{}, fmt.Errorf("load shelf entry %s: %w", input.ShelfEntryID, err)
	}

	var session domain.Session
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		_, err := i.store.FindOpenByShelfEntry(ctx, input.UserID, input.ShelfEntryID)
		if err == nil {
			return apperrors.ErrOpenSessionExists
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		session, err = i.svc.Start(ctx, domain.CreateInput{
			UserID:         input.UserID,
			ShelfEntryID:   input.ShelfEntryID,
			BookID:         input.BookID,
			StartPage:      input.StartPage,
			EndPage:        input.EndPage,
			PlannedPages:   input.PlannedPages,
			Type:           domain.Type(input.SessionType),
			CommuteContext: input.CommuteContext,
		})
		return err
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return toSessionOutput(session), nil
}

// Finish closes the session (authoritative write) and then merges the
// reached page into shelf progress. The merge is best-effort: its failure
// is logged and swallowed, and the call still reports the closed session.
func (i *Interactor) Finish(ctx context.Context, input sessiondto.FinishInput) (sessiondto.FinishOutput, error) {
	if input.DurationMinutes <= 0 {
		return sessiondto.FinishOutput{}, fmt.Errorf("duration minutes must be positive: %w", apperrors.ErrInvalidInput)
	}
	if input.UserID == "" || input.SessionID == "" {
		return sessiondto.FinishOutput{}, fmt.Errorf("user id and session id are required: %w", apperrors.ErrInvalidInput)
	}

	session, err := i.store.Get(ctx, input.SessionID, input.UserID)
	if err != nil {
		return sessiondto.FinishOutput{}, fmt.Errorf("load session %s: %w", input.SessionID, err)
	}

	closed, err := i.svc.Close(ctx, session, input.ActualEndPage, input.DurationMinutes)
	if err != nil {
		return sessiondto.FinishOutput{}, err
	}

	merged := i.mergeShelfProgress(ctx, closed)
	return sessiondto.FinishOutput{Session: toSessionOutput(closed), ProgressMerged: merged}, nil
}

// mergeShelfProgress reflects a closed session into the shelf entry.
// The session is already closed at this point, so nothing here may fail
// the finish call; a miss or store error leaves the merge pending.
func (i *Interactor) mergeShelfProgress(ctx context.Context, closed domain.Session) bool {
	if i.shelf == nil || closed.ActualEndPage == nil {
		return false
	}
	_, err := i.shelf.MergeProgress(ctx, shelfdto.MergeProgressInput{
		UserID:      closed.UserID,
		EntryID:     closed.ShelfEntryID,
		ReachedPage: *closed.ActualEndPage,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			slog.Warn("shelf entry missing, session closed without progress merge",
				"session_id", closed.ID, "shelf_entry_id", closed.ShelfEntryID)
		} else {
			slog.Warn("shelf progress merge failed, session stays closed",
				"session_id", closed.ID, "shelf_entry_id", closed.ShelfEntryID, "error", err)
		}
		return false
	}
	return true
}

// RecentSessions lists sessions started at or after since, newest first.
func (i *Interactor) RecentSessions(ctx context.Context, userID string, since time.Time) ([]sessiondto.RecentSessionOutput, error) {
	sessions, err := i.store.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.RecentSessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, sessiondto.RecentSessionOutput{
			SessionID:    session.ID,
			BookID:       session.BookID,
			SessionType:  string(session.Type),
			PlannedPages: session.PlannedPages,
			ActualPages:  session.ActualPages,
			StartedAt:    session.StartedAt,
			EndedAt:      session.EndedAt,
		})
	}
	return out, nil
}

func toSessionOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		SessionID:        session.ID,
		ShelfEntryID:     session.ShelfEntryID,
		BookID:           session.BookID,
		SessionType:      string(session.Type),
		PlannedStartPage: session.PlannedStartPage,
		PlannedEndPage:   session.PlannedEndPage,
		PlannedPages:     session.PlannedPages,
		ActualStartPage:  session.ActualStartPage,
		ActualEndPage:    session.ActualEndPage,
		ActualPages:      session.ActualPages,
		EffectiveMinutes: session.EffectiveMinutes,
		StartedAt:        session.StartedAt,
		EndedAt:          session.EndedAt,
		CommuteContext:   session.CommuteContext,
	}
}
