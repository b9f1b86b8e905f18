package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	catalogdto "pageturn/internal/modules/catalog/dto"
	"pageturn/internal/modules/shelf/domain"
	"pageturn/internal/modules/shelf/dto"
	shelfin "pageturn/internal/modules/shelf/port/in"
	"pageturn/internal/modules/shelf/service"
	"pageturn/internal/modules/shelf/usecase"
	apperrors "pageturn/internal/platform/errors"
)

type fakeEntryStore struct {
	entries map[string]domain.Entry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: map[string]domain.Entry{}}
}

func (f *fakeEntryStore) Create(_ context.Context, entry domain.Entry) error {
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeEntryStore) FindByID(_ context.Context, userID, entryID string) (domain.Entry, error) {
	entry, ok := f.entries[entryID]
	if !ok || entry.UserID != userID {
		return domain.Entry{}, apperrors.ErrNotFound
	}
	return entry, nil
}

func (f *fakeEntryStore) FindByUserBook(_ context.Context, userID, bookID string) (domain.Entry, error) {
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.BookID == bookID {
			return entry, nil
		}
	}
	return domain.Entry{}, apperrors.ErrNotFound
}

func (f *fakeEntryStore) ListByUser(_ context.Context, userID string) ([]domain.Entry, error) {
	var out []domain.Entry
	for _, entry := range f.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) Update(_ context.Context, entry domain.Entry) error {
	if _, ok := f.entries[entry.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.entries[entry.ID] = entry
	return nil
}

type fakeCatalog struct {
	books map[string]catalogdto.BookOutput
}

func (f *fakeCatalog) GetBook(_ context.Context, bookID string) (catalogdto.BookOutput, error) {
	book, ok := f.books[bookID]
	if !ok {
		return catalogdto.BookOutput{}, apperrors.ErrNotFound
	}
	return book, nil
}

func (f *fakeCatalog) RegisterBook(_ context.Context, input catalogdto.RegisterBookInput) (catalogdto.BookOutput, error) {
	return catalogdto.BookOutput{ID: input.ID}, nil
}

func (f *fakeCatalog) EnsurePageCount(_ context.Context, bookID string) (catalogdto.EnsurePageCountOutput, error) {
	return catalogdto.EnsurePageCountOutput{}, apperrors.ErrPageCountUnavailable
}

func (f *fakeCatalog) ListProviderPlugins(_ context.Context) ([]catalogdto.ProviderPluginInfo, error) {
	return nil, nil
}

func (f *fakeCatalog) Doctor(_ context.Context) ([]catalogdto.DoctorResult, error) {
	return nil, nil
}

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newShelf(store *fakeEntryStore, catalog *fakeCatalog, now time.Time) shelfin.Usecase {
	svc := service.NewShelfService(fixedClock{now: now}, &seqID{}, store)
	return usecase.NewInteractor(svc, catalog)
}

func TestAddBookCreatesPlannedEntry(t *testing.T) {
	t.Parallel()
	store := newFakeEntryStore()
	catalog := &fakeCatalog{books: map[string]catalogdto.BookOutput{
		"book-1": {ID: "book-1", Title: "소년이 온다", PageCount: 216},
	}}
	shelf := newShelf(store, catalog, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	out, err := shelf.AddBook(context.Background(), dto.AddBookInput{UserID: "u1", BookID: "book-1"})
	if err != nil {
		t.Fatalf("AddBook: %v", err)
	}
	if out.AlreadyExists {
		t.Fatal("first add reported as existing")
	}
	if out.Item.Status != string(domain.StatusPlanned) {
		t.Fatalf("status = %s, want planned", out.Item.Status)
	}
	if out.Item.EndPage != 216 {
		t.Fatalf("end page = %d, want 216 from catalog", out.Item.EndPage)
	}
	if out.Item.StartPage != 1 {
		t.Fatalf("start page = %d, want 1", out.Item.StartPage)
	}
	if out.Item.Title != "소년이 온다" {
		t.Fatalf("title = %q", out.Item.Title)
	}
}

func TestAddBookIsIdempotent(t *testing.T) {
	t.Parallel()
	store := newFakeEntryStore()
	catalog := &fakeCatalog{books: map[string]catalogdto.BookOutput{
		"book-1": {ID: "book-1", Title: "Piranesi", PageCount: 272},
	}}
	shelf := newShelf(store, catalog, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	first, err := shelf.AddBook(context.Background(), dto.AddBookInput{UserID: "u1", BookID: "book-1"})
	if err != nil {
		t.Fatalf("first AddBook: %v", err)
	}
	second, err := shelf.AddBook(context.Background(), dto.AddBookInput{UserID: "u1", BookID: "book-1"})
	if err != nil {
		t.Fatalf("second AddBook: %v", err)
	}
	if !second.AlreadyExists {
		t.Fatal("second add did not report the existing entry")
	}
	if second.Item.EntryID != first.Item.EntryID {
		t.Fatalf("entry id changed: %s vs %s", second.Item.EntryID, first.Item.EntryID)
	}
	if len(store.entries) != 1 {
		t.Fatalf("store holds %d entries, want 1", len(store.entries))
	}
}

func TestAddBookRejectsMissingIDs(t *testing.T) {
	t.Parallel()
	shelf := newShelf(newFakeEntryStore(), &fakeCatalog{}, time.Now())

	_, err := shelf.AddBook(context.Background(), dto.AddBookInput{UserID: "u1"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAddBookUnknownBook(t *testing.T) {
	t.Parallel()
	shelf := newShelf(newFakeEntryStore(), &fakeCatalog{}, time.Now())

	_, err := shelf.AddBook(context.Background(), dto.AddBookInput{UserID: "u1", BookID: "nope"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBookshelfGroupsByStatus(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeEntryStore()
	store.entries["e1"] = domain.Entry{ID: "e1", UserID: "u1", BookID: "b1", Status: domain.StatusReading, CurrentPage: 40, EndPage: 200, UpdatedAt: now}
	store.entries["e2"] = domain.Entry{ID: "e2", UserID: "u1", BookID: "b2", Status: domain.StatusPlanned, UpdatedAt: now}
	store.entries["e3"] = domain.Entry{ID: "e3", UserID: "u1", BookID: "b3", Status: domain.StatusCompleted, CurrentPage: 320, EndPage: 320, UpdatedAt: now}
	store.entries["e4"] = domain.Entry{ID: "e4", UserID: "u2", BookID: "b1", Status: domain.StatusReading, UpdatedAt: now}
	catalog := &fakeCatalog{books: map[string]catalogdto.BookOutput{
		"b1": {ID: "b1", Title: "One", PageCount: 200},
	}}
	shelf := newShelf(store, catalog, now)

	grouped, err := shelf.Bookshelf(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Bookshelf: %v", err)
	}
	if len(grouped.Reading) != 1 || len(grouped.Planned) != 1 || len(grouped.Completed) != 1 || len(grouped.Dropped) != 0 {
		t.Fatalf("grouping = %d/%d/%d/%d, want 1/1/1/0",
			len(grouped.Reading), len(grouped.Planned), len(grouped.Completed), len(grouped.Dropped))
	}
	if got := grouped.Reading[0].Progress; got != 20 {
		t.Fatalf("reading progress = %v, want 20", got)
	}
	// b2 and b3 have no cached metadata; the entries still render.
	if grouped.Planned[0].BookID != "b2" {
		t.Fatalf("planned entry book = %s", grouped.Planned[0].BookID)
	}
}

func TestCurrentReadingFiltersStatus(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeEntryStore()
	store.entries["e1"] = domain.Entry{ID: "e1", UserID: "u1", BookID: "b1", Status: domain.StatusReading, UpdatedAt: now}
	store.entries["e2"] = domain.Entry{ID: "e2", UserID: "u1", BookID: "b2", Status: domain.StatusDropped, UpdatedAt: now}
	shelf := newShelf(store, &fakeCatalog{}, now)

	items, err := shelf.CurrentReading(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CurrentReading: %v", err)
	}
	if len(items) != 1 || items[0].EntryID != "e1" {
		t.Fatalf("items = %+v, want just e1", items)
	}
}

func TestMergeProgressAdvancesAndCompletes(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeEntryStore()
	store.entries["e1"] = domain.Entry{ID: "e1", UserID: "u1", BookID: "b1", Status: domain.StatusPlanned, StartPage: 1, EndPage: 100, UpdatedAt: now}
	shelf := newShelf(store, &fakeCatalog{}, now)

	out, err := shelf.MergeProgress(context.Background(), dto.MergeProgressInput{UserID: "u1", EntryID: "e1", ReachedPage: 40})
	if err != nil {
		t.Fatalf("MergeProgress: %v", err)
	}
	if out.CurrentPage != 40 || out.Status != string(domain.StatusReading) {
		t.Fatalf("merge = page %d status %s, want 40/reading", out.CurrentPage, out.Status)
	}

	// A later session that ended earlier in the book must not move it back.
	out, err = shelf.MergeProgress(context.Background(), dto.MergeProgressInput{UserID: "u1", EntryID: "e1", ReachedPage: 25})
	if err != nil {
		t.Fatalf("MergeProgress regress: %v", err)
	}
	if out.CurrentPage != 40 {
		t.Fatalf("current page regressed to %d", out.CurrentPage)
	}

	out, err = shelf.MergeProgress(context.Background(), dto.MergeProgressInput{UserID: "u1", EntryID: "e1", ReachedPage: 100})
	if err != nil {
		t.Fatalf("MergeProgress finish: %v", err)
	}
	if !out.Completed || out.Status != string(domain.StatusCompleted) {
		t.Fatalf("merge at end page = %+v, want completed", out)
	}
	if store.entries["e1"].CompletedAt.IsZero() {
		t.Fatal("completed timestamp not recorded")
	}
}

func TestMergeProgressUnknownEntry(t *testing.T) {
	t.Parallel()
	shelf := newShelf(newFakeEntryStore(), &fakeCatalog{}, time.Now())

	_, err := shelf.MergeProgress(context.Background(), dto.MergeProgressInput{UserID: "u1", EntryID: "ghost", ReachedPage: 10})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
