package main

import (
	"os"

	"github.com/AkihiroSuda/nscache/commands"
)

func main() {
	if err := commands.MainCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
