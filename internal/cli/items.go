package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/session"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "List, show, create, edit and delete items in a collection",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var collection string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			page, err := client.ListItems(cmd.Context(), collection, limit, offset)
			if err != nil {
				return writeErr(cmd, mapAPIError(err, "collection", collection))
			}
			return writeOut(cmd, app, page.Features)
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection ID")
	cmd.Flags().IntVar(&limit, "limit", 100, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			doc, err := client.GetItem(cmd.Context(), collection, args[0])
			if err != nil {
				return writeErr(cmd, mapAPIError(err, "item", args[0]))
			}
			return writeOut(cmd, app, doc)
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection ID")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var collection, file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item from JSON (--file or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitItem(cmd, app, collection, file, dryRun, false, "")
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection ID")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the item draft (default: stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the outbound payload instead of submitting")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	var collection, file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Update an existing item from JSON (--file or stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitItem(cmd, app, collection, file, dryRun, true, args[0])
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection ID")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the item draft (default: stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the outbound payload instead of submitting")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	var collection string
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete item %s without --yes", args[0])
			}
			client, err := newClient(app)
			if err != nil {
				return err
			}
			if err := client.DeleteItem(cmd.Context(), collection, args[0]); err != nil {
				return writeErr(cmd, mapAPIError(err, "item", args[0]))
			}
			return writeOut(cmd, app, model.Doc{"deleted": args[0], "collection": collection})
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection ID")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	_ = cmd.MarkFlagRequired("collection")
	return cmd
}

func submitItem(cmd *cobra.Command, app *App, collection, file string, dryRun, editMode bool, wantID string) error {
	draft, err := readDraft(cmd, file)
	if err != nil {
		return err
	}
	if wantID != "" && model.StringField(draft, "id") != wantID {
		return fmt.Errorf("draft id %q does not match argument %q", model.StringField(draft, "id"), wantID)
	}

	client, err := newClient(app)
	if err != nil && !dryRun {
		return err
	}
	apiBase := app.APIURL
	if client != nil {
		apiBase = client.BaseURL()
	}

	sess := session.NewItem(draft, editMode, collection)
	if err := sess.BeginSubmit(); err != nil {
		return describeValidation(cmd, err)
	}
	defer sess.EndSubmit()

	payload, err := sess.BuildPayload(apiBase)
	if err != nil {
		return err
	}
	if dryRun {
		return writeOut(cmd, app, payload)
	}
	result, err := client.SubmitItem(cmd.Context(), collection, payload, editMode)
	if err != nil {
		return writeErr(cmd, mapAPIError(err, "item", wantID))
	}
	dropDraftBestEffort(cmd, model.KindItem, collection, model.StringField(payload, "id"))
	return writeOut(cmd, app, result)
}
