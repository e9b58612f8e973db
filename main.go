package main

import (
	"os"

	"github.com/CDTO-DENKART/app-visualizer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
