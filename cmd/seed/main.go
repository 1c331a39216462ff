package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/config"
	"github.com/opshift-dev/shift-planner/backend/internal/repository"
	"github.com/opshift-dev/shift-planner/backend/internal/seed"
	"github.com/opshift-dev/shift-planner/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var businessID int64

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random workers, 2: insert random shift templates, 3: insert demo data)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Int64Var(&businessID, "business-id", 1, "business to seed into")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
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

	// sql.Open does not dial, ping to surface connection errors now
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		if n <= 0 {
			slog.Error("invalid worker count")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				worker, err := utils.GenerateRandomWorker(businessID, cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("failed to generate random worker", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(worker); err != nil {
					slog.Error("failed to insert worker", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("workers inserted", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("invalid shift template count")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				st := utils.GenerateRandomShiftTemplate(businessID)
				if err := repo.CreateShiftTemplate(st); err != nil {
					slog.Error("failed to insert shift template", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("shift templates inserted", slog.Int("count", n-cnt))
		}
	case 3:
		seed.SeedDemoData(repo, businessID, cfg.Seed.User.Password, cfg.Email.UserDomain)
	default:
		slog.Error("unknown operation")
	}
}
