package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/geowerk/projfile/internal/cli"
	"github.com/geowerk/projfile/pkg/projfile"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(projfile.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(projfile.ExitCodeForError(err))
	}
}
