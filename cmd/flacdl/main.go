package main

import (
	"os"

	"github.com/joho/godotenv"

	"flacdl/cmd/flacdl/commands"
	"flacdl/internal/shared"
)

const toolVersion = "1.0.0"

func main() {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()
	shared.InitializeColors()

	if err := commands.NewRootCommand(toolVersion).Execute(); err != nil {
		os.Exit(1)
	}
}
