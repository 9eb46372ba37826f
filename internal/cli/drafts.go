package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NASA-IMPACT/stac-admin/internal/model"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
)

func newDraftsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect and clean up locally saved drafts",
	}
	cmd.AddCommand(newDraftsListCmd(app))
	cmd.AddCommand(newDraftsShowCmd(app))
	cmd.AddCommand(newDraftsDeleteCmd(app))
	return cmd
}

func newDraftsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := store.OpenDrafts(cmd.Context())
			if err != nil {
				return err
			}
			defer ds.Close()

			drafts, err := ds.List(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]model.Doc, 0, len(drafts))
			for _, d := range drafts {
				out = append(out, model.Doc{
					"kind":       string(d.Kind),
					"collection": d.CollectionID,
					"record":     d.RecordID,
					"editMode":   d.EditMode,
					"updatedAt":  d.UpdatedAt,
				})
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newDraftsShowCmd(app *App) *cobra.Command {
	var collection string
	var item bool
	cmd := &cobra.Command{
		Use:   "show <record-id>",
		Short: "Show one draft body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := store.OpenDrafts(cmd.Context())
			if err != nil {
				return err
			}
			defer ds.Close()

			d, err := ds.Get(cmd.Context(), draftKind(item), collection, args[0])
			if errors.Is(err, store.ErrDraftNotFound) {
				return errNotFound("draft", args[0])
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, d.Body)
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection (item drafts)")
	cmd.Flags().BoolVar(&item, "item", false, "Look up an item draft instead of a collection draft")
	return cmd
}

func newDraftsDeleteCmd(app *App) *cobra.Command {
	var collection string
	var item bool
	cmd := &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete one draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := store.OpenDrafts(cmd.Context())
			if err != nil {
				return err
			}
			defer ds.Close()

			if err := ds.Delete(cmd.Context(), draftKind(item), collection, args[0]); err != nil {
				return err
			}
			return writeOut(cmd, app, model.Doc{"deleted": args[0]})
		},
	}
	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Owning collection (item drafts)")
	cmd.Flags().BoolVar(&item, "item", false, "Delete an item draft instead of a collection draft")
	return cmd
}

func draftKind(item bool) model.Kind {
	if item {
		return model.KindItem
	}
	return model.KindCollection
}

// dropDraftBestEffort removes the local draft after a successful submission.
// Failures only warn; the record is already on the server.
func dropDraftBestEffort(cmd *cobra.Command, kind model.Kind, collectionID, recordID string) {
	if recordID == "" {
		return
	}
	ds, err := store.OpenDrafts(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: open draft store: %v\n", err)
		return
	}
	defer ds.Close()
	if err := ds.Delete(cmd.Context(), kind, collectionID, recordID); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: drop draft %s: %v\n", recordID, err)
	}
}
