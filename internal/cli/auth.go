package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the saved bearer token",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a bearer token for future commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = app.Token
			}
			if token == "" {
				return fmt.Errorf("no token given (use --with-token or STAC_ADMIN_TOKEN)")
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			cfg.Token = token
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			return writeOut(cmd, app, model.Doc{"status": "saved"})
		},
	}
	cmd.Flags().StringVar(&token, "with-token", "", "Bearer token to save")
	return cmd
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			out := model.Doc{
				"apiUrl":        cfg.APIURL,
				"authenticated": cfg.Token != "" || app.Token != "",
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			cfg.Token = ""
			if err := store.SaveConfig(cfg); err != nil {
				return err
			}
			return writeOut(cmd, app, model.Doc{"status": "logged out"})
		},
	}
}
