package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pageturn/internal/bootstrap"
	catalogdto "pageturn/internal/modules/catalog/dto"
	sessiondto "pageturn/internal/modules/session/dto"
	shelfdto "pageturn/internal/modules/shelf/dto"
	"pageturn/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir, userID string

	root := &cobra.Command{
		Use:           "pageturn",
		Short:         "Commute reading tracker and pace recommender",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")
	root.PersistentFlags().StringVar(&userID, "user", "", "user id (defaults to PAGETURN_USER or \"local\")")

	root.AddCommand(newTUICmd(&dataDir, &userID))
	root.AddCommand(newShelfCmd(&dataDir, &userID))
	root.AddCommand(newSessionCmd(&dataDir, &userID))
	root.AddCommand(newRecommendCmd(&dataDir, &userID))
	root.AddCommand(newProfileCmd(&dataDir, &userID))
	root.AddCommand(newBookCmd(&dataDir, &userID))
	root.AddCommand(newPluginCmd(&dataDir, &userID))
	return root
}

func loadApp(dataDir, userID string) (*bootstrap.App, config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, config.Config{}, err
	}
	if userID != "" {
		cfg.UserID = userID
	}
	if cfg.UserID == "" {
		cfg.UserID = "local"
	}
	setupLogger(cfg.LogLevel)

	app, err := bootstrap.New(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func newTUICmd(dataDir, userID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the pageturn terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cfg, app)
		},
	}
}

func newShelfCmd(dataDir, userID *string) *cobra.Command {
	shelf := &cobra.Command{Use: "shelf", Short: "Bookshelf commands"}

	var bookID string
	add := &cobra.Command{
		Use:   "add --book-id <id>",
		Short: "Add a book to the shelf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(bookID) == "" {
				return fmt.Errorf("--book-id is required")
			}
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ShelfCLI.AddBook(context.Background(), cfg.UserID, bookID)
			if err != nil {
				return err
			}
			if out.AlreadyExists {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "already on shelf: %s (%s)\n", out.Item.Title, out.Item.EntryID)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added: %s (%s)\n", out.Item.Title, out.Item.EntryID)
			return nil
		},
	}
	add.Flags().StringVar(&bookID, "book-id", "", "catalog book id")
	shelf.AddCommand(add)

	shelf.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the shelf grouped by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ShelfCLI.Bookshelf(context.Background(), cfg.UserID)
			if err != nil {
				return err
			}
			printGroup(cmd, "reading", out.Reading)
			printGroup(cmd, "planned", out.Planned)
			printGroup(cmd, "completed", out.Completed)
			printGroup(cmd, "dropped", out.Dropped)
			return nil
		},
	})

	shelf.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "List books currently being read",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.ShelfCLI.CurrentReading(context.Background(), cfg.UserID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing in progress")
				return nil
			}
			for _, e := range entries {
				printEntry(cmd, e)
			}
			return nil
		},
	})
	return shelf
}

func printGroup(cmd *cobra.Command, label string, entries []shelfdto.EntryOutput) {
	if len(entries) == 0 {
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", label)
	for _, e := range entries {
		printEntry(cmd, e)
	}
}

func printEntry(cmd *cobra.Command, e shelfdto.EntryOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s\tp.%d", e.EntryID, e.Title, e.CurrentPage)
	if e.PageCount > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "/%d (%.1f%%)", e.PageCount, e.Progress)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
}

func newSessionCmd(dataDir, userID *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Reading session lifecycle"}

	var entryID, bookID, sessionType, commuteContext string
	var startPage, endPage, plannedPages int
	start := &cobra.Command{
		Use:   "start --entry-id <id> --book-id <id>",
		Short: "Start a reading session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(entryID) == "" || strings.TrimSpace(bookID) == "" {
				return fmt.Errorf("--entry-id and --book-id are required")
			}
			var rawContext json.RawMessage
			if commuteContext != "" {
				if !json.Valid([]byte(commuteContext)) {
					return fmt.Errorf("--context must be valid JSON")
				}
				rawContext = json.RawMessage(commuteContext)
			}
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Start(context.Background(), sessiondto.StartInput{
				UserID:         cfg.UserID,
				ShelfEntryID:   entryID,
				BookID:         bookID,
				StartPage:      startPage,
				EndPage:        endPage,
				PlannedPages:   plannedPages,
				SessionType:    sessionType,
				CommuteContext: rawContext,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s pages=%d-%d planned=%d\n",
				out.SessionID, out.PlannedStartPage, out.PlannedEndPage, out.PlannedPages)
			return nil
		},
	}
	start.Flags().StringVar(&entryID, "entry-id", "", "shelf entry id")
	start.Flags().StringVar(&bookID, "book-id", "", "catalog book id")
	start.Flags().IntVar(&startPage, "start-page", 0, "planned start page")
	start.Flags().IntVar(&endPage, "end-page", 0, "planned end page")
	start.Flags().IntVar(&plannedPages, "planned-pages", 0, "planned page count (derived from the range when 0)")
	start.Flags().StringVar(&sessionType, "type", "commute", "session type: commute|timer")
	start.Flags().StringVar(&commuteContext, "context", "", "opaque commute context JSON")

	var sessionID string
	var actualEndPage int
	var minutes float64
	finish := &cobra.Command{
		Use:   "finish --session-id <id> --end-page <page> --minutes <min>",
		Short: "Finish a session and merge shelf progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(sessionID) == "" {
				return fmt.Errorf("--session-id is required")
			}
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Finish(context.Background(), sessiondto.FinishInput{
				UserID:          cfg.UserID,
				SessionID:       sessionID,
				ActualEndPage:   actualEndPage,
				DurationMinutes: minutes,
			})
			if err != nil {
				return err
			}
			s := out.Session
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session finished: %s read=%d pages (%d-%d) in %.1f min\n",
				s.SessionID, deref(s.ActualPages), deref(s.ActualStartPage), deref(s.ActualEndPage), s.EffectiveMinutes)
			if !out.ProgressMerged {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "warning: shelf progress not merged; finish again or check the shelf entry")
			}
			return nil
		},
	}
	finish.Flags().StringVar(&sessionID, "session-id", "", "session id")
	finish.Flags().IntVar(&actualEndPage, "end-page", 0, "last page actually reached")
	finish.Flags().Float64Var(&minutes, "minutes", 0, "effective reading minutes")

	var days int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			since := time.Now().UTC().AddDate(0, 0, -days)
			sessions, err := app.SessionCLI.RecentSessions(context.Background(), cfg.UserID, since)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no recent sessions")
				return nil
			}
			for _, s := range sessions {
				state := "open"
				if !s.EndedAt.IsZero() {
					state = fmt.Sprintf("read %d/%d", deref(s.ActualPages), s.PlannedPages)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					s.SessionID, s.SessionType, s.StartedAt.Format("2006-01-02 15:04"), state)
			}
			return nil
		},
	}
	recent.Flags().IntVar(&days, "days", 7, "history window in days")

	session.AddCommand(start, finish, recent)
	return session
}

func newRecommendCmd(dataDir, userID *string) *cobra.Command {
	var bookID string
	var minutes float64
	recommend := &cobra.Command{
		Use:   "recommend --book-id <id> --minutes <min>",
		Short: "Recommend the next page range for available reading time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(bookID) == "" {
				return fmt.Errorf("--book-id is required")
			}
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PaceCLI.Recommend(context.Background(), cfg.UserID, bookID, minutes)
			if err != nil {
				return err
			}
			if out.IsAlreadyCompleted {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is already finished (p.%d/%d)\n", out.Title, out.CurrentPage, out.PageCount)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: read p.%d-%d (%d pages, %d remaining)\n",
				out.Title, out.StartPage, out.EndPage, out.PagesToRead, out.RemainingPages)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ppm=%.2f difficulty=%.2f slack=%.2f\n",
				out.UsedPPM, out.DifficultyFactor, out.SlackFactor)
			return nil
		},
	}
	recommend.Flags().StringVar(&bookID, "book-id", "", "book id on the shelf")
	recommend.Flags().Float64Var(&minutes, "minutes", 0, "available reading minutes")
	return recommend
}

func newProfileCmd(dataDir, userID *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Reading profile"}

	var ppm float64
	set := &cobra.Command{
		Use:   "set --ppm <pages-per-minute>",
		Short: "Set base reading speed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ProfileCLI.SetBasePPM(context.Background(), cfg.UserID, ppm)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "base ppm set to %.2f\n", out.BasePPM)
			return nil
		},
	}
	set.Flags().Float64Var(&ppm, "ppm", 0, "pages per minute")
	profile.AddCommand(set)

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cfg, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ProfileCLI.Profile(context.Background(), cfg.UserID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "user: %s\nbase ppm: %.2f\nupdated: %s\n",
				out.UserID, out.BasePPM, out.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	})
	return profile
}

func newBookCmd(dataDir, userID *string) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Catalog commands"}

	var id, isbn, title, publisher, published, language string
	var authors, categories []string
	var pages int
	add := &cobra.Command{
		Use:   "add --title <title>",
		Short: "Register a book in the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			app, _, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CatalogCLI.RegisterBook(context.Background(), catalogdto.RegisterBookInput{
				ID:            id,
				ISBN13:        isbn,
				Title:         title,
				Authors:       authors,
				Publisher:     publisher,
				PublishedDate: published,
				PageCount:     pages,
				Categories:    categories,
				Language:      language,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered: %s (%s)\n", out.Title, out.ID)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "book id (generated when empty)")
	add.Flags().StringVar(&isbn, "isbn", "", "isbn-13")
	add.Flags().StringVar(&title, "title", "", "title")
	add.Flags().StringSliceVar(&authors, "authors", nil, "authors")
	add.Flags().StringVar(&publisher, "publisher", "", "publisher")
	add.Flags().StringVar(&published, "published", "", "published date")
	add.Flags().IntVar(&pages, "pages", 0, "page count")
	add.Flags().StringSliceVar(&categories, "categories", nil, "categories")
	add.Flags().StringVar(&language, "language", "", "language code")
	book.AddCommand(add)

	var bookID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show a cached catalog row",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(bookID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, _, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CatalogCLI.GetBook(context.Background(), bookID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\ntitle: %s\nauthors: %s\npages: %d\nisbn: %s\ncategories: %s\n",
				out.ID, out.Title, strings.Join(out.Authors, ", "), out.PageCount, out.ISBN13, strings.Join(out.Categories, " > "))
			return nil
		},
	}
	show.Flags().StringVar(&bookID, "id", "", "book id")
	book.AddCommand(show)

	var ensureID string
	ensure := &cobra.Command{
		Use:   "ensure-pages --id <id>",
		Short: "Resolve and cache the book's page count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(ensureID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, _, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CatalogCLI.EnsurePageCount(context.Background(), ensureID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "page count: %d (source: %s)\n", out.PageCount, out.Source)
			return nil
		},
	}
	ensure.Flags().StringVar(&ensureID, "id", "", "book id")
	book.AddCommand(ensure)
	return book
}

func newPluginCmd(dataDir, userID *string) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Metadata provider plugins"}

	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed provider plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			plugins, err := app.CatalogCLI.ListProviderPlugins(context.Background())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no provider plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
			}
			return nil
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate provider plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*dataDir, *userID)
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.CatalogCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no provider plugins configured")
				return nil
			}
			for _, r := range results {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t reachable=%t %s\n",
					r.Name, r.ChecksumValid, r.BinaryReachable, status)
			}
			return nil
		},
	})
	return plugin
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
