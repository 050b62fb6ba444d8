// Command seed loads demo accounts, brands and perfumes into Postgres.
// Running it again leaves existing rows alone.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/config"
	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/internal/container"
	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	repo "github.com/oksasatya/perfume-catalog/internal/domain/repository"
	pginfra "github.com/oksasatya/perfume-catalog/internal/infrastructure/postgres"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
)

type seedMember struct {
	email, password, name string
	admin                 bool
}

type seedPerfume struct {
	name, brand, concentration, audience, description, ingredients, uri string
	price, volume                                                      float64
}

var members = []seedMember{
	{"admin@myteam.com", "Admin123!@#", "Admin", true},
	{"user@myteam.com", "User123!@#", "Demo User", false},
}

var brands = []string{"Sample Brand", "Aqua Dior", "Amber House", "Cedar Lab"}

var perfumes = []seedPerfume{
	{"Ocean Mist", "Aqua Dior", "EDT", "unisex", "Salty breeze over citrus.", "sea salt, bergamot, ambroxan", "https://images.example.com/ocean-mist.jpg", 89, 100},
	{"Midnight Amber", "Amber House", "EDP", "female", "Warm amber and vanilla for late evenings.", "amber, vanilla, benzoin", "https://images.example.com/midnight-amber.jpg", 135, 50},
	{"Cedar Trail", "Cedar Lab", "Parfum", "male", "Dry woods after rain.", "cedarwood, vetiver, pepper", "https://images.example.com/cedar-trail.jpg", 160, 75},
	{"First Light", "Sample Brand", "EDC", "unisex", "A bright everyday splash.", "neroli, lemon, musk", "https://images.example.com/first-light.jpg", 45, 200},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := container.PostgresStore(pool)
	c := container.New(cfg, logger, store, container.Deps{}, nil)

	for _, m := range members {
		if err := seedAccount(ctx, c.Members, store.Members, m); err != nil {
			log.Fatalf("seed member %s: %v", m.email, err)
		}
	}

	brandIDs := map[string]string{}
	for _, name := range brands {
		id, err := seedBrand(ctx, c.Brands, name)
		if err != nil {
			log.Fatalf("seed brand %s: %v", name, err)
		}
		brandIDs[name] = id
	}

	for _, p := range perfumes {
		if err := seedOnePerfume(ctx, c.Perfumes, brandIDs[p.brand], p); err != nil {
			log.Fatalf("seed perfume %s: %v", p.name, err)
		}
	}
	logger.WithFields(logrus.Fields{"members": len(members), "brands": len(brands), "perfumes": len(perfumes)}).Info("seed complete")
}

func seedAccount(ctx context.Context, svc *application.MemberService, r repo.MemberRepository, m seedMember) error {
	existing, err := r.GetByEmail(ctx, m.email)
	if errors.Is(err, repo.ErrNotFound) {
		sess, err := svc.Register(ctx, application.RegisterInput{Email: m.email, Password: m.password, Name: m.name})
		if err != nil {
			return err
		}
		existing = sess.Member
	} else if err != nil {
		return err
	}
	if m.admin && !existing.IsAdmin {
		existing.IsAdmin = true
		return r.Update(ctx, existing)
	}
	return nil
}

func seedBrand(ctx context.Context, svc *application.BrandService, name string) (string, error) {
	found, err := svc.List(ctx, name)
	if err != nil {
		return "", err
	}
	for _, b := range found {
		if b.BrandName == name {
			return b.ID, nil
		}
	}
	b, err := svc.Create(ctx, name)
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

func seedOnePerfume(ctx context.Context, svc *application.PerfumeService, brandID string, p seedPerfume) error {
	found, err := svc.List(ctx, entity.PerfumeFilter{Query: p.name, BrandID: brandID})
	if err != nil {
		return err
	}
	for _, f := range found {
		if f.PerfumeName == p.name {
			return nil
		}
	}
	_, err = svc.Create(ctx, application.PerfumeInput{
		PerfumeName:    &p.name,
		URI:            &p.uri,
		Price:          &p.price,
		Concentration:  &p.concentration,
		Description:    &p.description,
		Ingredients:    &p.ingredients,
		Volume:         &p.volume,
		TargetAudience: &p.audience,
		Brand:          &brandID,
	})
	return err
}
