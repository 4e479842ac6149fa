package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gigboard-dev/gigboard/internal/config"
	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
	"github.com/gigboard-dev/gigboard/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: random workers, 2: random employers, 3: random jobs, 4: random applications, 5: all of them)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect, so ping once to fail early
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate database", "error", err)
		return
	}

	s := seed.NewSeeder(repo, cfg.Seed.User.Password, cfg.Seed.EmailDomain)
	ctx = context.Background()

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		_, err = s.Users(ctx, n, domain.RoleWorker)
	case 2:
		_, err = s.Users(ctx, n, domain.RoleEmployer)
	case 3:
		_, err = s.Jobs(ctx, n)
	case 4:
		_, err = s.Applications(ctx)
	case 5:
		err = seedAll(ctx, s, n)
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
	if err != nil {
		slog.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func seedAll(ctx context.Context, s *seed.Seeder, n int) error {
	if _, err := s.Users(ctx, n, domain.RoleEmployer); err != nil {
		return err
	}
	if _, err := s.Users(ctx, n*2, domain.RoleWorker); err != nil {
		return err
	}
	if _, err := s.Jobs(ctx, n*3); err != nil {
		return err
	}
	_, err := s.Applications(ctx)
	return err
}
