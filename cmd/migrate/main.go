package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/congo-pay/account_balance/internal/logging"
	"github.com/congo-pay/account_balance/internal/migrate"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	log := logging.New("migrate", "info")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	runner, err := migrate.New(*dsn, log)
	if err != nil {
		log.Error("configure migration runner", "error", err)
		os.Exit(1)
	}

	switch *command {
	case "up":
		err = runner.Up(ctx)
	case "status":
		err = runner.Status(ctx)
	case "down":
		err = runner.Down(ctx, *target)
	default:
		log.Error("unsupported command", "command", *command)
		os.Exit(1)
	}
	if err != nil {
		log.Error("migration command failed", "command", *command, "error", err)
		os.Exit(1)
	}

	log.Info("migration command completed", "command", *command)
}
