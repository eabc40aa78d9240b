package bootstrap

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	libraryinadapter "metis/internal/modules/library/adapter/in"
	libraryoutadapter "metis/internal/modules/library/adapter/out"
	libraryservice "metis/internal/modules/library/service"
	libraryusecase "metis/internal/modules/library/usecase"
	reviewinadapter "metis/internal/modules/review/adapter/in"
	reviewoutadapter "metis/internal/modules/review/adapter/out"
	reviewservice "metis/internal/modules/review/service"
	reviewusecase "metis/internal/modules/review/usecase"
	sessioninadapter "metis/internal/modules/session/adapter/in"
	sessionoutadapter "metis/internal/modules/session/adapter/out"
	sessionservice "metis/internal/modules/session/service"
	sessionusecase "metis/internal/modules/session/usecase"
	"metis/internal/platform/clock"
	"metis/internal/platform/config"
	"metis/internal/platform/id"
	"metis/internal/platform/state"
	uiapp "metis/internal/ui/app"
)

type App struct {
	LibraryCLI libraryinadapter.CLIHandler
	ReviewCLI  reviewinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler

	log   hclog.Logger
	store *state.Store
}

func New(ctx context.Context, cfg config.Config, log hclog.Logger) (*App, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}

	store := state.Open(ctx, openBackend(cfg, clk, log), log.Named("state"))

	reviewUC := reviewusecase.NewInteractor(
		reviewservice.NewReviewService(clk, loc, store, reviewoutadapter.NewStateReviewStore(store)),
		log.Named("review"),
	)

	libraryRepo := libraryoutadapter.NewStateLibraryStore(store)
	libraryUC := libraryusecase.NewInteractor(
		libraryservice.NewLibraryService(ids, store, libraryRepo, libraryRepo),
		store,
		reviewUC,
		log.Named("library"),
	)

	sessionRepo := sessionoutadapter.NewStateSessionStore(store)
	sessionUC := sessionusecase.NewController(sessionusecase.Options{
		Service: sessionservice.NewSessionService(
			clk, loc, sessionRepo, sessionRepo,
			sessionoutadapter.NewVaultJournal(cfg.JournalDir, loc),
		),
		Library:   libraryUC,
		Tx:        store,
		Scheduler: clk,
		Durations: sessionusecase.Durations{
			FocusedReading: cfg.FocusDuration(),
			BrainDump:      cfg.BrainDumpDuration(),
		},
		Logger: log.Named("session"),
	})

	return &App{
		LibraryCLI: libraryinadapter.NewCLIHandler(libraryUC),
		ReviewCLI:  reviewinadapter.NewCLIHandler(reviewUC),
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		log:        log,
		store:      store,
	}, nil
}

// openBackend picks the persistence backend. A SQLite database that cannot
// be opened degrades to in-memory state for this run.
func openBackend(cfg config.Config, clk clock.Clock, log hclog.Logger) state.Backend {
	switch strings.ToLower(cfg.Storage) {
	case config.StorageSQLite:
		backend, err := state.NewSQLiteBackend(cfg.DBPath, clk)
		if err != nil {
			log.Warn("sqlite storage unavailable, state will not be saved", "path", cfg.DBPath, "error", err)
			return &state.MemoryBackend{}
		}
		return backend
	default:
		return state.NewFileBackend(cfg.StatePath)
	}
}

// Close retries a pending write and releases the backend.
func (a *App) Close(ctx context.Context) error {
	if a.store.Dirty() {
		if err := a.store.Flush(ctx); err != nil {
			a.log.Error("state could not be saved", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	return nil
}

// RunTUI runs the terminal UI. startTab selects the first tab: dashboard,
// session or review.
func RunTUI(app *App, startTab string) error {
	model := uiapp.NewModel(app.LibraryCLI, app.SessionCLI, app.ReviewCLI, startTab)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if abandonErr := app.SessionCLI.Abandon(context.Background()); abandonErr != nil {
		app.log.Warn("abandon on exit", "error", abandonErr)
	}
	return err
}
