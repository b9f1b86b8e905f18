package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	shelfdomain "pageturn/internal/modules/shelf/domain"
	shelfdto "pageturn/internal/modules/shelf/dto"
	"pageturn/internal/modules/session/domain"
	sessiondto "pageturn/internal/modules/session/dto"
	sessionin "pageturn/internal/modules/session/port/in"
	"pageturn/internal/modules/session/service"
	"pageturn/internal/modules/session/usecase"
	apperrors "pageturn/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct{ n int }

func (g *seqID) New() string {
	g.n++
	return string(rune('a' + g.n - 1))
}

type fakeSessionStore struct {
	sessions   map[string]domain.Session
	failCreate error
	failUpdate error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]domain.Session{}}
}

func (s *fakeSessionStore) Create(_ context.Context, session domain.Session) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, sessionID, userID string) (domain.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return domain.Session{}, apperrors.ErrNotFound
	}
	return session, nil
}

func (s *fakeSessionStore) Update(_ context.Context, session domain.Session) error {
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if _, ok := s.sessions[session.ID]; !ok {
		return apperrors.ErrNotFound
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeSessionStore) FindOpenByShelfEntry(_ context.Context, userID, shelfEntryID string) (domain.Session, error) {
	for _, session := range s.sessions {
		if session.UserID == userID && session.ShelfEntryID == shelfEntryID && session.Open() {
			return session, nil
		}
	}
	return domain.Session{}, apperrors.ErrNotFound
}

func (s *fakeSessionStore) ListSince(_ context.Context, userID string, since time.Time) ([]domain.Session, error) {
	var out []domain.Session
	for _, session := range s.sessions {
		if session.UserID == userID && !session.StartedAt.Before(since) {
			out = append(out, session)
		}
	}
	return out, nil
}

type fakeShelf struct {
	entries   map[string]shelfdomain.Entry
	failMerge error
	merges    []shelfdto.MergeProgressInput
}

func newFakeShelf(entries ...shelfdomain.Entry) *fakeShelf {
	f := &fakeShelf{entries: map[string]shelfdomain.Entry{}}
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return f
}

func (f *fakeShelf) AddBook(context.Context, shelfdto.AddBookInput) (shelfdto.AddBookOutput, error) {
	return shelfdto.AddBookOutput{}, errors.New("not implemented")
}

func (f *fakeShelf) Bookshelf(context.Context, string) (shelfdto.GroupedOutput, error) {
	return shelfdto.GroupedOutput{}, errors.New("not implemented")
}

func (f *fakeShelf) CurrentReading(context.Context, string) ([]shelfdto.EntryOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeShelf) EntryByID(_ context.Context, userID, entryID string) (shelfdomain.Entry, error) {
	entry, ok := f.entries[entryID]
	if !ok || entry.UserID != userID {
		return shelfdomain.Entry{}, apperrors.ErrNotFound
	}
	return entry, nil
}

func (f *fakeShelf) EntryByUserBook(context.Context, string, string) (shelfdomain.Entry, error) {
	return shelfdomain.Entry{}, apperrors.ErrNotFound
}

func (f *fakeShelf) MergeProgress(_ context.Context, input shelfdto.MergeProgressInput) (shelfdto.MergeProgressOutput, error) {
	f.merges = append(f.merges, input)
	if f.failMerge != nil {
		return shelfdto.MergeProgressOutput{}, f.failMerge
	}
	entry, ok := f.entries[input.EntryID]
	if !ok {
		return shelfdto.MergeProgressOutput{}, apperrors.ErrNotFound
	}
	merged := entry.MergeProgress(input.ReachedPage, time.Now())
	f.entries[input.EntryID] = merged
	return shelfdto.MergeProgressOutput{
		EntryID:     merged.ID,
		CurrentPage: merged.CurrentPage,
		Status:      string(merged.Status),
	}, nil
}

func newInteractor(store *fakeSessionStore, shelf *fakeShelf) sessionin.Usecase {
	svc := service.NewSessionService(fixedClock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}, &seqID{}, store)
	return usecase.NewInteractor(svc, store, shelf, nil)
}

func readingEntry(id, userID string) shelfdomain.Entry {
	return shelfdomain.Entry{
		ID:          id,
		UserID:      userID,
		BookID:      "book-1",
		Status:      shelfdomain.StatusReading,
		StartPage:   1,
		CurrentPage: 40,
		EndPage:     320,
	}
}

func TestStartRejectsSecondOpenSession(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	shelf := newFakeShelf(readingEntry("entry-1", "user-1"))
	it := newInteractor(store, shelf)

	input := sessiondto.StartInput{
		UserID: "user-1", ShelfEntryID: "entry-1", BookID: "book-1",
		StartPage: 41, EndPage: 60,
	}
	if _, err := it.Start(context.Background(), input); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := it.Start(context.Background(), input)
	if !errors.Is(err, apperrors.ErrOpenSessionExists) {
		t.Fatalf("second start error = %v, want ErrOpenSessionExists", err)
	}
}

func TestStartUnknownShelfEntry(t *testing.T) {
	t.Parallel()

	it := newInteractor(newFakeSessionStore(), newFakeShelf())

	_, err := it.Start(context.Background(), sessiondto.StartInput{
		UserID: "user-1", ShelfEntryID: "missing", BookID: "book-1",
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestFinishMergesShelfProgress(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	shelf := newFakeShelf(readingEntry("entry-1", "user-1"))
	it := newInteractor(store, shelf)

	started, err := it.Start(context.Background(), sessiondto.StartInput{
		UserID: "user-1", ShelfEntryID: "entry-1", BookID: "book-1",
		StartPage: 41, EndPage: 60,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := it.Finish(context.Background(), sessiondto.FinishInput{
		UserID: "user-1", SessionID: started.SessionID,
		ActualEndPage: 72, DurationMinutes: 25,
	})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !out.ProgressMerged {
		t.Fatal("ProgressMerged = false, want true")
	}
	if got := *out.Session.ActualPages; got != 32 {
		t.Fatalf("actual pages = %d, want 32", got)
	}
	if got := shelf.entries["entry-1"].CurrentPage; got != 72 {
		t.Fatalf("shelf current page = %d, want 72", got)
	}
}

func TestFinishSurvivesMergeFailure(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	shelf := newFakeShelf(readingEntry("entry-1", "user-1"))
	shelf.failMerge = errors.New("store gone")
	it := newInteractor(store, shelf)

	started, err := it.Start(context.Background(), sessiondto.StartInput{
		UserID: "user-1", ShelfEntryID: "entry-1", BookID: "book-1",
		StartPage: 41, EndPage: 60,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := it.Finish(context.Background(), sessiondto.FinishInput{
		UserID: "user-1", SessionID: started.SessionID,
		ActualEndPage: 55, DurationMinutes: 20,
	})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if out.ProgressMerged {
		t.Fatal("ProgressMerged = true, want false on merge failure")
	}
	if out.Session.EndedAt.IsZero() {
		t.Fatal("session should be closed despite the failed merge")
	}
	stored, err := store.Get(context.Background(), started.SessionID, "user-1")
	if err != nil {
		t.Fatalf("get stored session: %v", err)
	}
	if stored.Open() {
		t.Fatal("stored session still open")
	}
}

func TestFinishRejectsNonPositiveDurationBeforeLoading(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	it := newInteractor(store, newFakeShelf())

	_, err := it.Finish(context.Background(), sessiondto.FinishInput{
		UserID: "user-1", SessionID: "whatever",
		ActualEndPage: 10, DurationMinutes: 0,
	})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestFinishUnknownSession(t *testing.T) {
	t.Parallel()

	it := newInteractor(newFakeSessionStore(), newFakeShelf())

	_, err := it.Finish(context.Background(), sessiondto.FinishInput{
		UserID: "user-1", SessionID: "ghost",
		ActualEndPage: 10, DurationMinutes: 15,
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestFinishSkipsMergeWhenEntryGone(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	shelf := newFakeShelf(readingEntry("entry-1", "user-1"))
	it := newInteractor(store, shelf)

	started, err := it.Start(context.Background(), sessiondto.StartInput{
		UserID: "user-1", ShelfEntryID: "entry-1", BookID: "book-1",
		StartPage: 1, EndPage: 20,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	delete(shelf.entries, "entry-1")

	out, err := it.Finish(context.Background(), sessiondto.FinishInput{
		UserID: "user-1", SessionID: started.SessionID,
		ActualEndPage: 15, DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if out.ProgressMerged {
		t.Fatal("ProgressMerged = true, want false when the entry is gone")
	}
}

func TestRecentSessionsFiltersByWindow(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	old := domain.Session{ID: "old", UserID: "user-1", BookID: "b", ShelfEntryID: "e",
		Type: domain.TypeCommute, StartedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	fresh := domain.Session{ID: "fresh", UserID: "user-1", BookID: "b", ShelfEntryID: "e",
		Type: domain.TypeCommute, StartedAt: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)}
	store.sessions["old"] = old
	store.sessions["fresh"] = fresh

	it := newInteractor(store, newFakeShelf())

	out, err := it.RecentSessions(context.Background(), "user-1", time.Date(2025, 2, 22, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("recent sessions: %v", err)
	}
	if len(out) != 1 || out[0].SessionID != "fresh" {
		t.Fatalf("got %+v, want only the fresh session", out)
	}
}
