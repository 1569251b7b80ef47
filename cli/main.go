package main

import (
	"os"

	"github.com/datavirke/odata-go-generator/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
