package main

import (
	"os"

	"github.com/abhisek/patterndrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
