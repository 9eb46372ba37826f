package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/session"
)

func newCollectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection"},
		Short:   "List, show, create, edit and delete collections",
	}
	cmd.AddCommand(newCollectionsListCmd(app))
	cmd.AddCommand(newCollectionsShowCmd(app))
	cmd.AddCommand(newCollectionsCreateCmd(app))
	cmd.AddCommand(newCollectionsEditCmd(app))
	cmd.AddCommand(newCollectionsDeleteCmd(app))
	return cmd
}

func newCollectionsListCmd(app *App) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			page, err := client.ListCollections(cmd.Context(), limit, offset)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, page.Collections)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func newCollectionsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection-id>",
		Short: "Show one collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			doc, err := client.GetCollection(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, mapAPIError(err, "collection", args[0]))
			}
			return writeOut(cmd, app, doc)
		},
	}
}

func newCollectionsCreateCmd(app *App) *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collection from JSON (--file or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitCollection(cmd, app, file, dryRun, false, "")
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the collection draft (default: stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the outbound payload instead of submitting")
	return cmd
}

func newCollectionsEditCmd(app *App) *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "edit <collection-id>",
		Short: "Update an existing collection from JSON (--file or stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitCollection(cmd, app, file, dryRun, true, args[0])
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the collection draft (default: stdin)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the outbound payload instead of submitting")
	return cmd
}

func newCollectionsDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection-id>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete collection %s without --yes", args[0])
			}
			client, err := newClient(app)
			if err != nil {
				return err
			}
			if err := client.DeleteCollection(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, mapAPIError(err, "collection", args[0]))
			}
			return writeOut(cmd, app, model.Doc{"deleted": args[0]})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

func submitCollection(cmd *cobra.Command, app *App, file string, dryRun, editMode bool, wantID string) error {
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

	sess := session.NewCollection(draft, editMode)
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
	result, err := client.SubmitCollection(cmd.Context(), payload, editMode)
	if err != nil {
		return writeErr(cmd, mapAPIError(err, "collection", wantID))
	}
	dropDraftBestEffort(cmd, model.KindCollection, "", model.StringField(payload, "id"))
	return writeOut(cmd, app, result)
}

// readDraft parses a JSON document from a file or stdin using the same
// strict parser as the JSON editing mode.
func readDraft(cmd *cobra.Command, file string) (model.Doc, error) {
	var raw []byte
	var err error
	if file == "" || file == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	doc, err := session.Deserialize(string(raw))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func describeValidation(cmd *cobra.Command, err error) error {
	if ve, ok := err.(*session.ValidationError); ok {
		for field, msg := range ve.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
		}
	}
	return err
}
