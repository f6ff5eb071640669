package main

import (
	"os"

	"github.com/ocpizza/ocpizza/cmd/ocpizza/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
