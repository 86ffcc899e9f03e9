package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Bre77/wip/internal/bootstrap/config"
	"github.com/Bre77/wip/internal/bootstrap/database"
	"github.com/Bre77/wip/internal/bootstrap/logging"
	cacheinfra "github.com/Bre77/wip/internal/infrastructure/cache"
	githubinfra "github.com/Bre77/wip/internal/infrastructure/github"
	sqliterepo "github.com/Bre77/wip/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "github.com/Bre77/wip/internal/infrastructure/persistence/sqlite/uow"
	"github.com/Bre77/wip/internal/ports"
	"github.com/Bre77/wip/internal/usecase/auth"
	"github.com/Bre77/wip/internal/usecase/worklist"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewOverrideRepository,
			fx.As(new(ports.OverrideRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewSessionRepository,
			fx.As(new(ports.SessionRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			provideFetcher,
			fx.As(new(ports.GitHubSource)),
		),
	),
	fx.Provide(provideWorklistService),
	fx.Provide(provideAuthService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideFetcher(cfg config.Config, cache ports.Cache) *githubinfra.Fetcher {
	return githubinfra.NewFetcher(
		githubinfra.NewGraphQLClient(cfg.GitHub.GraphQLEndpoint),
		cache,
		cfg.GitHub.CacheTTL,
	)
}

func provideWorklistService(source ports.GitHubSource, repo ports.OverrideRepository, uow ports.UnitOfWork, cache ports.Cache, cfg config.Config) *worklist.Service {
	return worklist.NewService(source, repo, uow, cache, worklist.Config{
		Rules:       cfg.Classify.Rules(),
		SnapshotTTL: cfg.Snapshot.TTL,
	})
}

func provideAuthService(cfg config.Config, sessions ports.SessionRepository) *auth.Service {
	return auth.NewService(auth.Config{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		RedirectURL:  cfg.GitHub.RedirectURL,
	}, sessions)
}
