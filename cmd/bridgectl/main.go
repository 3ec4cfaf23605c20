package main

import (
	"os"

	"github.com/fibero-labs/bridgectl/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for RPC urls, contract addresses and signing keys.
	_ = godotenv.Load()

	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
