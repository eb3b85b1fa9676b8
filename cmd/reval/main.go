package main

import (
	"os"

	"github.com/wharflab/reval/cmd/reval/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitConfigError)
	}
}
