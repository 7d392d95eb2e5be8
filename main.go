package main

import (
	"os"

	"github.com/d33gardner/listeningcarousel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
