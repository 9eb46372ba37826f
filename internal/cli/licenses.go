package cli

import (
	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/license"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
)

func newLicensesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "licenses",
		Short: "Work with the SPDX license catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known license identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := license.Fetch(cmd.Context(), nil, licenseURL())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, cat.IDs())
		},
	})
	return cmd
}

func licenseURL() string {
	if cfg, err := store.LoadConfig(); err == nil && cfg.LicenseURL != "" {
		return cfg.LicenseURL
	}
	return license.DefaultURL
}
