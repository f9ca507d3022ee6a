package main

import (
	"os"

	"github.com/brainvault/brainvault/brainvaultservice"
)

func main() {
	if err := brainvaultservice.Run(); err != nil {
		os.Exit(1)
	}
}
