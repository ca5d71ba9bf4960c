package main

import (
	"os"

	"github.com/ordinskiy/rl/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
