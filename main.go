package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"go.uber.org/zap"

	"masquerade/internal/app"
	"masquerade/internal/config"
	"masquerade/internal/logging"
	"masquerade/internal/service"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	configPath string
	logger     *zap.Logger
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "masquerade",
	Short: "Visual page builder for Salesforce-style Lightning pages",
	Long: `Masquerade lays out record, home and app pages on a region grid.

Run without arguments to open the desktop editor. The subcommands work on
the same local library without a window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.AddCommand(mcpCmd, layoutsCmd, exportCmd, importCmd, backupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGUI() error {
	emitter := app.NewEmitter()
	core, err := app.NewCore(cfg, logger, emitter)
	if err != nil {
		return err
	}
	a := app.New(core, emitter)
	size := core.Window.LoadWindowSize()

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	err = wails.Run(&options.App{
		Title:     "Masquerade",
		Width:     size.Width,
		Height:    size.Height,
		MinWidth:  service.MinWindowWidth,
		MinHeight: service.MinWindowHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 243, G: 243, B: 243, A: 1},
		Menu:             appMenu,
		OnStartup:        a.Startup,
		OnShutdown:       a.Shutdown,
		Bind: []interface{}{
			a,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				FullSizeContent:            true,
				UseToolbar:                 true,
				HideToolbarSeparator:       true,
			},
			About: &mac.AboutInfo{
				Title:   "Masquerade",
				Message: "Visual builder for Lightning pages",
			},
		},
	})
	if err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
