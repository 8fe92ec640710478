package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	authservice "taxi-booking/internal/auth-service"
	"taxi-booking/internal/config"
	"taxi-booking/internal/database"
	emailservice "taxi-booking/internal/email-service"
	"taxi-booking/internal/mylogger"
	webservice "taxi-booking/internal/web-service"
)

const usage = `usage: app <command> [flags]

commands:
  auth-service    login, registration and profiles
  web-service     driver management API and driver websocket
  email-service   delivers queued emails over SMTP
  migrate         applies database migrations (-steps N to move N up or down)`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mylog := mylogger.New(cfg.Log.Level).With("service", os.Args[1])
	ctx := context.Background()

	switch os.Args[1] {
	case "auth-service":
		err = authservice.Execute(ctx, mylog, cfg)
	case "web-service":
		err = webservice.Execute(ctx, mylog, cfg)
	case "email-service":
		err = emailservice.Execute(ctx, mylog, cfg)
	case "migrate":
		migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
		steps := migrateCmd.Int("steps", 0, "number of migrations to apply, negative to roll back; 0 applies all")
		_ = migrateCmd.Parse(os.Args[2:])

		if *steps == 0 {
			err = database.RunMigrations(cfg.DB.URL())
		} else {
			err = database.StepMigrations(cfg.DB.URL(), *steps)
		}
		if err == nil {
			mylog.Info("Migrations applied", "steps", *steps)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("Service stopped with error", err)
		os.Exit(1)
	}
}
