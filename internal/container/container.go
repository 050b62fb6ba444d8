// Package container builds the application graph once at start-up. main
// constructs the infrastructure clients and hands them to New; the router
// reads everything it wires from the returned Container.
package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/oksasatya/perfume-catalog/config"
	"github.com/oksasatya/perfume-catalog/internal/application"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
	"github.com/oksasatya/perfume-catalog/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/perfume-catalog/internal/infrastructure/postgres"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
)

// Store groups the repositories of one backing store with its transactor.
type Store struct {
	Tx       repo.Transactor
	Brands   repo.BrandRepository
	Perfumes repo.PerfumeRepository
	Members  repo.MemberRepository
}

func PostgresStore(pool *pgxpool.Pool) Store {
	db := pginfra.NewDB(pool)
	return Store{
		Tx:       db,
		Brands:   pginfra.NewBrandRepository(db),
		Perfumes: pginfra.NewPerfumeRepository(db),
		Members:  pginfra.NewMemberRepository(db),
	}
}

func MemoryStore(s *memory.Store) Store {
	return Store{Tx: s, Brands: s.Brands(), Perfumes: s.Perfumes(), Members: s.Members()}
}

// Deps are the optional integrations; nil fields disable the feature.
type Deps struct {
	Redis  *redis.Client
	Images application.ImageStore
	Index  application.PerfumeIndex
	Mail   application.JobPublisher
}

type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Redis   *redis.Client
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager

	// OAuth is nil when Google sign-in is not configured.
	OAuth *oauth2.Config

	Guard    *application.IntegrityGuard
	Brands   *application.BrandService
	Perfumes *application.PerfumeService
	Members  *application.MemberService
}

func New(cfg *config.Config, logger *logrus.Logger, store Store, deps Deps, oauth *oauth2.Config) *Container {
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	guard := application.NewIntegrityGuard(store.Brands, store.Perfumes, store.Members, logger)

	perfumes := application.NewPerfumeService(store.Perfumes, store.Brands, store.Members, store.Tx, guard, logger)
	perfumes.Images = deps.Images
	perfumes.Index = deps.Index

	brands := application.NewBrandService(store.Brands, store.Tx, guard, logger)
	brands.Reindex = perfumes

	members := application.NewMemberService(store.Members, store.Tx, guard, jwt, logger)
	members.AppName = cfg.AppName
	members.AllowSelfAdmin = cfg.AllowSelfAdminSeed
	if cfg.MailSendEnabled {
		members.Mail = deps.Mail
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Redis:    deps.Redis,
		JWT:      jwt,
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		OAuth:    oauth,
		Guard:    guard,
		Brands:   brands,
		Perfumes: perfumes,
		Members:  members,
	}
}
