// BlockFit viewer: a desktop window for editing a block list, placing it
// and exporting the layout.
//
// Build:
//   go build -o blockfit-view ./cmd/blockfit-view
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o blockfit-view.exe ./cmd/blockfit-view
//
// Usage:
//   blockfit-view [blocks-file]

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/BlockFit/internal/project"
	"github.com/piwi3910/BlockFit/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})

	configPath := project.DefaultConfigPath()
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if level, err := log.ParseLevel(config.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	application := app.NewWithID("com.piwi3910.blockfit")
	application.Settings().SetTheme(ui.NewBlockFitTheme())
	window := application.NewWindow("BlockFit")

	appUI := ui.NewApp(window, config, configPath, logger)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1000, 760))
	window.CenterOnScreen()

	if len(os.Args) > 1 {
		if err := appUI.OpenFile(os.Args[1]); err != nil {
			dialog.ShowError(err, window)
		}
	}

	window.ShowAndRun()
}
