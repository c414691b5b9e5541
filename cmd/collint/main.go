package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"collint/internal/cmd"
)

func main() {
	err := fang.Execute(context.Background(), cmd.RootCmd)

	// Show the update notice after command execution so it also appears
	// when the command fails
	cmd.ShowUpdateNoticeIfAvailable()

	if err != nil {
		os.Exit(1)
	}
}
