package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	cataloginadapter "pageturn/internal/modules/catalog/adapter/in"
	catalogoutadapter "pageturn/internal/modules/catalog/adapter/out"
	catalogout "pageturn/internal/modules/catalog/port/out"
	catalogservice "pageturn/internal/modules/catalog/service"
	catalogusecase "pageturn/internal/modules/catalog/usecase"
	paceinadapter "pageturn/internal/modules/pace/adapter/in"
	paceoutadapter "pageturn/internal/modules/pace/adapter/out"
	pacedomain "pageturn/internal/modules/pace/domain"
	paceservice "pageturn/internal/modules/pace/service"
	paceusecase "pageturn/internal/modules/pace/usecase"
	profileinadapter "pageturn/internal/modules/profile/adapter/in"
	profileoutadapter "pageturn/internal/modules/profile/adapter/out"
	profileusecase "pageturn/internal/modules/profile/usecase"
	sessioninadapter "pageturn/internal/modules/session/adapter/in"
	sessionoutadapter "pageturn/internal/modules/session/adapter/out"
	sessionservice "pageturn/internal/modules/session/service"
	sessionusecase "pageturn/internal/modules/session/usecase"
	shelfinadapter "pageturn/internal/modules/shelf/adapter/in"
	shelfoutadapter "pageturn/internal/modules/shelf/adapter/out"
	shelfservice "pageturn/internal/modules/shelf/service"
	shelfusecase "pageturn/internal/modules/shelf/usecase"
	"pageturn/internal/platform/clock"
	"pageturn/internal/platform/config"
	"pageturn/internal/platform/id"
	"pageturn/internal/platform/sqlite"
	"pageturn/internal/platform/tx"
	uiapp "pageturn/internal/ui/app"
)

type App struct {
	ShelfCLI   shelfinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	PaceCLI    paceinadapter.CLIHandler
	CatalogCLI cataloginadapter.CLIHandler
	ProfileCLI profileinadapter.CLIHandler

	db *sql.DB
}

// New wires every module against one shared sqlite database.
func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	txm := tx.NewSQLManager(db)

	bookStore, err := catalogoutadapter.NewSQLiteBookStore(db)
	if err != nil {
		return nil, fmt.Errorf("new book store: %w", err)
	}
	catalogSvc := catalogservice.NewCatalogService(clk, ids, bookStore)
	manifests := catalogoutadapter.NewFileManifestStore(cfg.PluginDir)
	host := catalogoutadapter.NewGRPCHost()
	catalogUC := catalogusecase.NewInteractor(catalogSvc, buildProviders(cfg, manifests, host), manifests, host)

	entryStore, err := shelfoutadapter.NewSQLiteEntryStore(db)
	if err != nil {
		return nil, fmt.Errorf("new entry store: %w", err)
	}
	shelfSvc := shelfservice.NewShelfService(clk, ids, entryStore)
	shelfUC := shelfusecase.NewInteractor(shelfSvc, catalogUC)

	sessionStore, err := sessionoutadapter.NewSQLiteSessionStore(db)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids, sessionStore),
		sessionStore,
		shelfUC,
		txm,
	)

	profileStore, err := profileoutadapter.NewSQLiteProfileStore(db)
	if err != nil {
		return nil, fmt.Errorf("new profile store: %w", err)
	}
	profileUC := profileusecase.NewInteractor(clk, profileStore)

	tuning := loadTuning(cfg)
	slackEstimator := paceservice.NewSlackEstimator(clk, paceoutadapter.NewSessionHistory(sessionUC), tuning)
	paceUC := paceusecase.NewInteractor(
		paceoutadapter.NewShelfReader(shelfUC),
		paceoutadapter.NewBookMetaSource(catalogUC),
		paceoutadapter.NewProfileSource(profileUC),
		slackEstimator,
		tuning,
	)

	return &App{
		ShelfCLI:   shelfinadapter.NewCLIHandler(shelfUC),
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		PaceCLI:    paceinadapter.NewCLIHandler(paceUC),
		CatalogCLI: cataloginadapter.NewCLIHandler(catalogUC),
		ProfileCLI: profileinadapter.NewCLIHandler(profileUC),
		db:         db,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// buildProviders assembles the page-count resolution chain: built-in HTTP
// catalogs first, then any enabled provider plugins.
func buildProviders(cfg config.Config, manifests catalogout.ManifestStore, host catalogout.PluginHost) []catalogout.MetaProvider {
	providers := []catalogout.MetaProvider{
		catalogoutadapter.NewGoogleBooksProvider(cfg.GoogleBooksAPIKey),
		catalogoutadapter.NewAladinProvider(cfg.AladinTTBKey),
	}
	installed, err := manifests.Load(context.Background())
	if err != nil {
		slog.Warn("provider manifests unreadable, plugins skipped", "error", err)
		return providers
	}
	for _, manifest := range installed {
		if !manifest.Enabled {
			continue
		}
		if err := manifest.Validate(); err != nil {
			slog.Warn("skipping invalid provider manifest", "provider", manifest.Name, "error", err)
			continue
		}
		providers = append(providers, catalogoutadapter.NewPluginProvider(host, manifest))
	}
	return providers
}

func loadTuning(cfg config.Config) pacedomain.Tuning {
	raw, err := cfg.LoadTuning()
	if err != nil {
		slog.Warn("tuning file unreadable, using defaults", "path", cfg.TuningPath, "error", err)
		return pacedomain.DefaultTuning()
	}
	return pacedomain.Tuning{
		DefaultPPM:        raw.DefaultPPM,
		BaselineSlack:     raw.BaselineSlack,
		SlackMin:          raw.SlackMin,
		SlackMax:          raw.SlackMax,
		HistoryWindowDays: raw.HistoryWindowDays,
		MinSamples:        raw.MinSamples,
	}.Normalize()
}

func RunTUI(cfg config.Config, app *App) error {
	model := uiapp.NewModel(cfg.UserID, app.ShelfCLI, app.SessionCLI, app.PaceCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
