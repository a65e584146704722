package main

import (
	"os"

	"github.com/openlobby/registry/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
