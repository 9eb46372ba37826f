package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/api"
	"github.com/NASA-IMPACT/stac-admin/internal/format"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
	"github.com/NASA-IMPACT/stac-admin/internal/tui"
)

type App struct {
	APIURL     string
	Token      string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "stac-admin",
		Short:        "Admin console for STAC catalogs (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive console
  stac-admin --api https://stac.example.com

  # Scriptable commands
  stac-admin collections list
  stac-admin items list --collection landsat

  # Create a collection from a JSON file
  stac-admin collections create --file collection.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Best-effort .env load; flags and real env still win because the
		// loader never overrides variables that are already set.
		_ = godotenv.Load()
		if app.APIURL == "" {
			app.APIURL = os.Getenv("STAC_ADMIN_API")
		}
		if app.Token == "" {
			app.Token = os.Getenv("STAC_ADMIN_TOKEN")
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("STAC_ADMIN_API", ""), "STAC API root URL (falls back to config apiUrl)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("STAC_ADMIN_TOKEN", ""), "Bearer token (falls back to saved auth)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STAC_ADMIN_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newCollectionsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newLicensesCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newDraftsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	client, err := newClient(app)
	if err != nil {
		return err
	}
	return tui.Run(client)
}

// newClient resolves connection settings flag > env > config file.
func newClient(app *App) (*api.Client, error) {
	apiURL := app.APIURL
	token := app.Token
	if apiURL == "" || token == "" {
		if cfg, err := store.LoadConfig(); err == nil {
			if apiURL == "" {
				apiURL = cfg.APIURL
			}
			if token == "" {
				token = cfg.Token
			}
		}
	}
	if apiURL == "" {
		return nil, fmt.Errorf("no API URL configured (use --api, STAC_ADMIN_API, or `stac-admin config set apiUrl <url>`)")
	}
	return api.NewClient(api.Config{
		BaseURL: apiURL,
		Tokens:  api.StaticToken(token),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
