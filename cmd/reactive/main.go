package main

import (
	"os"

	"github.com/AnatoleLucet/reactive/internal/cli"
	"github.com/AnatoleLucet/reactive/internal/logging"
)

func main() {
	if err := cli.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logging.NewLogger(os.Stderr, logging.ParseLevel("info")).Error("command failed", "error", err)
		os.Exit(1)
	}
}
