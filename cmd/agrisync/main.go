package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/farmfork/agrisync/internal/cli"
	"github.com/farmfork/agrisync/internal/logger"
)

func main() {
	// Optional .env for AGRISYNC_DB and AGRISYNC_ENV; absence is fine.
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("AGRISYNC_ENV"), false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cli.NewRootCommand(log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
