package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/CodexForgeBR/tripfix/internal/cli"
	"github.com/CodexForgeBR/tripfix/internal/exitcode"
	"github.com/CodexForgeBR/tripfix/internal/logging"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))

	if err := root.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			logging.Error(exitErr.Error())
			os.Exit(exitErr.Code)
		}
		logging.Error(err.Error())
		os.Exit(exitcode.Error)
	}
}
