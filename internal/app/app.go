package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/panjf2000/ants/v2"

	"github.com/crickarena/crickarena/internal/config"
	"github.com/crickarena/crickarena/internal/domain/autoteam"
	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/player"
	"github.com/crickarena/crickarena/internal/domain/prediction"
	"github.com/crickarena/crickarena/internal/domain/queue"
	"github.com/crickarena/crickarena/internal/domain/stats"
	"github.com/crickarena/crickarena/internal/infrastructure/notify"
	"github.com/crickarena/crickarena/internal/infrastructure/repository/memory"
	"github.com/crickarena/crickarena/internal/infrastructure/repository/postgres"
	"github.com/crickarena/crickarena/internal/interfaces/httpapi"
	"github.com/crickarena/crickarena/internal/platform/cache"
	idgen "github.com/crickarena/crickarena/internal/platform/id"
	"github.com/crickarena/crickarena/internal/platform/logging"
	"github.com/crickarena/crickarena/internal/platform/namegen"
	"github.com/crickarena/crickarena/internal/usecase"
)

// App bundles the HTTP server with the resources it owns so the
// entrypoint can shut everything down in order.
type App struct {
	Server  *http.Server
	closers []func(context.Context) error
}

type repositories struct {
	fixtures    fixture.Repository
	players     player.Repository
	fantasy     fantasy.Repository
	queue       queue.Repository
	teams       autoteam.Repository
	predictions prediction.Repository
	stats       stats.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{}

	repos, err := a.buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(cfg.ScoringWorkers)
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error {
		pool.Release()
		return nil
	})

	var leaderboardCache *cache.Store
	if cfg.CacheEnabled {
		leaderboardCache = cache.NewStore(cfg.CacheTTL)
	}

	var notifier usecase.Notifier = usecase.NopNotifier{}
	if cfg.PushGatewayEnabled {
		notifier = notify.NewGateway(notify.GatewayConfig{
			BaseURL:          cfg.PushGatewayBaseURL,
			Token:            cfg.PushGatewayToken,
			Timeout:          cfg.PushGatewayTimeout,
			FailureThreshold: cfg.PushGatewayCircuitFailures,
			OpenTimeout:      cfg.PushGatewayCircuitOpenFor,
			HalfOpenMaxReq:   cfg.PushGatewayCircuitHalfOpen,
			Logger:           logger,
		})
		logger.Info("push gateway enabled", "base_url", cfg.PushGatewayBaseURL)
	} else {
		logger.Info("push gateway disabled", "reason", "PUSH_GATEWAY_ENABLED=false")
	}

	idGen := idgen.NewRandomGenerator()
	names := namegen.NewWordListGenerator()

	catalogSvc := usecase.NewCatalogService(repos.fixtures, repos.players)
	teamSvc := usecase.NewTeamService(repos.fixtures, repos.players, repos.fantasy, idGen, logger)
	matchmakingSvc := usecase.NewMatchmakingService(repos.fixtures, repos.fantasy, repos.queue, repos.teams, notifier, names, idGen, logger)
	predictionSvc := usecase.NewPredictionService(repos.fixtures, repos.players, repos.predictions, idGen, logger)
	scoringSvc := usecase.NewScoringService(repos.fixtures, repos.fantasy, repos.teams, repos.predictions, repos.stats, notifier, leaderboardCache, pool, logger)

	handler := httpapi.NewHandler(catalogSvc, teamSvc, matchmakingSvc, predictionSvc, scoringSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a.Server = server
	return a, nil
}

func (a *App) buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend", "kind", "memory", "reason", "DB_URL empty")
		queueRepo := memory.NewQueueRepository()
		return repositories{
			fixtures:    memory.NewFixtureRepository(memory.SeedFixtures()),
			players:     memory.NewPlayerRepository(memory.SeedPlayers()),
			fantasy:     memory.NewFantasyTeamRepository(),
			queue:       queueRepo,
			teams:       memory.NewAutoTeamRepository(queueRepo),
			predictions: memory.NewPredictionRepository(),
			stats:       memory.NewStatsRepository(),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, func(context.Context) error {
		return db.Close()
	})
	logger.Info("storage backend", "kind", "postgres", "db", dbNameFromURL(cfg.DBURL))

	return repositories{
		fixtures:    postgres.NewFixtureRepository(db),
		players:     postgres.NewPlayerRepository(db),
		fantasy:     postgres.NewFantasyTeamRepository(db),
		queue:       postgres.NewQueueRepository(db),
		teams:       postgres.NewAutoTeamRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		stats:       postgres.NewStatsRepository(db),
	}, nil
}

// Close releases app-owned resources in reverse acquisition order.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
