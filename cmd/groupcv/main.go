package main

import (
	"os"

	"github.com/hupe1980/groupcv/cmd/groupcv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
