package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write ~/.stac-admin/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			path, err := store.ConfigPath()
			if err != nil {
				return err
			}
			out := model.Doc{
				"path":       path,
				"apiUrl":     cfg.APIURL,
				"licenseUrl": cfg.LicenseURL,
				"hasToken":   cfg.Token != "",
			}
			if cfg.TUI != nil {
				out["tui"] = cfg.TUI
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (apiUrl, licenseUrl, tui.theme)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			key, value := args[0], args[1]
			switch key {
			case "apiUrl":
				cfg.APIURL = value
			case "licenseUrl":
				cfg.LicenseURL = value
			case "tui.theme":
				if cfg.TUI == nil {
					cfg.TUI = &store.TUIConfig{}
				}
				cfg.TUI.Theme = value
			default:
				return fmt.Errorf("unknown config key %q (want apiUrl, licenseUrl or tui.theme)", key)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			return writeOut(cmd, app, model.Doc{key: value})
		},
	}
}
