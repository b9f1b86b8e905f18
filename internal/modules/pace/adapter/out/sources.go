package out

import (
	"context"
	"time"

	catalogin "pageturn/internal/modules/catalog/port/in"
	"pageturn/internal/modules/pace/domain"
	paceout "pageturn/internal/modules/pace/port/out"
	profilein "pageturn/internal/modules/profile/port/in"
	sessionin "pageturn/internal/modules/session/port/in"
	shelfin "pageturn/internal/modules/shelf/port/in"
)

// The recommender reads from the other modules through their inbound
// ports. These adapters narrow each module's surface to the slice the
// pace ports ask for.

type ShelfReader struct {
	shelf shelfin.Usecase
}

func NewShelfReader(shelf shelfin.Usecase) paceout.ShelfReader {
	return ShelfReader{shelf: shelf}
}

func (r ShelfReader) EntryByBook(ctx context.Context, userID, bookID string) (paceout.ShelfSnapshot, error) {
	entry, err := r.shelf.EntryByUserBook(ctx, userID, bookID)
	if err != nil {
		return paceout.ShelfSnapshot{}, err
	}
	return paceout.ShelfSnapshot{
		EntryID:     entry.ID,
		BookID:      entry.BookID,
		CurrentPage: entry.CurrentPage,
		EndPage:     entry.EndPage,
	}, nil
}

type SessionHistory struct {
	sessions sessionin.Usecase
}

func NewSessionHistory(sessions sessionin.Usecase) paceout.SessionHistory {
	return SessionHistory{sessions: sessions}
}

func (h SessionHistory) Samples(ctx context.Context, userID string, since time.Time) ([]domain.Sample, error) {
	recent, err := h.sessions.RecentSessions(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	samples := make([]domain.Sample, 0, len(recent))
	for _, session := range recent {
		samples = append(samples, domain.Sample{
			PlannedPages: session.PlannedPages,
			ActualPages:  session.ActualPages,
		})
	}
	return samples, nil
}

type ProfileSource struct {
	profiles profilein.Usecase
}

func NewProfileSource(profiles profilein.Usecase) paceout.ProfileSource {
	return ProfileSource{profiles: profiles}
}

func (s ProfileSource) BasePPM(ctx context.Context, userID string) (float64, error) {
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return profile.BasePPM, nil
}

type BookMetaSource struct {
	catalog catalogin.Usecase
}

func NewBookMetaSource(catalog catalogin.Usecase) paceout.BookMetaSource {
	return BookMetaSource{catalog: catalog}
}

func (s BookMetaSource) Meta(ctx context.Context, bookID string) (paceout.BookInfo, error) {
	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return paceout.BookInfo{}, err
	}
	return paceout.BookInfo{
		Title:      book.Title,
		Authors:    book.Authors,
		CoverURL:   book.CoverURL,
		PageCount:  book.PageCount,
		Categories: book.Categories,
	}, nil
}
