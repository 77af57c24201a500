package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/database/seeder"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/infrastructure/cache"
	"jobmatch/internal/metrics"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"
	"jobmatch/internal/scheduler"
	ucauth "jobmatch/internal/usecase/auth"
	ucjob "jobmatch/internal/usecase/job"
	ucskill "jobmatch/internal/usecase/skill"
	useruc "jobmatch/internal/usecase/user"
	"jobmatch/internal/ws"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB      database.DB
	Redis   *cache.Redis
	Tokens  *jwt.HMACService
	Metrics *metrics.Metrics
	Hub     *ws.Hub

	Auth   *ucauth.Service
	Users  *useruc.Service
	Jobs   *ucjob.Service
	Skills *ucskill.Service

	Scheduler *scheduler.Scheduler
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, DB: db}

	if cfg.Database.AutoMigrate {
		if err := Prepare(ctx, db, migration.Runner{Logger: logger}, seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.Tokens = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
		cfg.JWT.Issuer,
	)
	c.Metrics = metrics.New()

	c.Hub = ws.NewHub(logger)
	c.Hub.OnClientCount(func(n int) { c.Metrics.WSClients.Set(float64(n)) })
	notifier := ws.NewNotifier(c.Hub)

	userRepo := repository.NewPostgresUserRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)

	searchCache := cache.NewSearchCache(c.Redis, job.SearchCachePrefix, cfg.Search.CacheTTL).
		OnLookup(c.Metrics.ObserveCacheLookup)

	c.Auth = ucauth.NewService(userRepo, c.Tokens, cache.NewSessionStore(c.Redis), notifier, logger)
	c.Users = useruc.NewService(userRepo, profileRepo)
	c.Jobs = ucjob.NewService(jobRepo, profileRepo, searchCache, notifier, cfg.Search, logger)
	c.Skills = ucskill.NewService(skillRepo)

	sched, err := scheduler.New(cfg.Jobs.ExpirySpec, cfg.Jobs.MaxAge(), c.Jobs, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	sched.OnExpired(func(n int64) { c.Metrics.JobsExpired.Add(float64(n)) })
	c.Scheduler = sched

	return c, nil
}

// Prepare applies pending migrations and runs the given seeders.
func Prepare(ctx context.Context, db database.DB, migrator migration.Runner, seeds seeder.Runner) error {
	if err := migrator.Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := seeds.Run(ctx, db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c.Scheduler.Stop(ctx)
		cancel()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
