package main

import (
	"os"

	"github.com/ishaan-vashist/cosmic-event/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
