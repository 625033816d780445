// cmd/yuran/main.go
//
// Entry point for the fee tracker. Bootstraps the data directory and runs
// the TUI. The tool is strictly single-operator: there is no locking on
// the roster or settings files, so two copies running against the same
// data directory can silently overwrite each other's changes.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smkpu/yuran-asrama/internal/config"
	"github.com/smkpu/yuran-asrama/internal/tui"
)

func main() {
	dataDir := flag.String("data", "", "Data directory (defaults to the working directory)")
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
		dir = cwd
	}

	if err := config.InitDataDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing data directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
