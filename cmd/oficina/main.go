package main

import (
	"os"

	"github.com/oficina-erp/oficina/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
