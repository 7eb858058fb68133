package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"creationrights/internal/domain"
	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
)

func newCreationCommand(ctx *commandContext) *cobra.Command {
	creationCmd := &cobra.Command{
		Use:     "creation",
		Aliases: []string{"c"},
		Short:   "Catalog creative works",
	}

	creationCmd.AddCommand(newCreationAddCommand(ctx))
	creationCmd.AddCommand(newCreationEditCommand(ctx))
	creationCmd.AddCommand(newCreationRemoveCommand(ctx))
	creationCmd.AddCommand(newCreationListCommand(ctx))
	creationCmd.AddCommand(newCreationShowCommand(ctx))

	return creationCmd
}

// creationFlags binds the editable fields shared by add and edit.
type creationFlags struct {
	title  string
	typ    string
	date   string
	rights string
	notes  string
	folder string
	tags   []string
}

func (f *creationFlags) register(cmd *cobra.Command) {
	types := make([]string, len(models.CreationTypes))
	for i, t := range models.CreationTypes {
		types[i] = string(t)
	}
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Title")
	cmd.Flags().StringVar(&f.typ, "type", "", "Type: "+strings.Join(types, ", "))
	cmd.Flags().StringVar(&f.date, "date", "", "Creation date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.rights, "rights", "", "Rights statement")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
	cmd.Flags().StringVarP(&f.folder, "folder", "f", "", "Folder id or path (\"/\" for root)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable or comma separated)")
}

func newCreationAddCommand(ctx *commandContext) *cobra.Command {
	var flags creationFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Catalog a new creation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				folderID, err := resolveFolder(flags.folder, ws.Folders())
				if err != nil {
					return err
				}
				if err := ws.NavigateTo(folderID); err != nil {
					return err
				}
				created, err := ws.CreateCreation(&svc.CreationInput{
					Title:       flags.title,
					Type:        flags.typ,
					DateCreated: flags.date,
					Rights:      flags.rights,
					Notes:       flags.notes,
					Tags:        flags.tags,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", created.Title, created.ID)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newCreationEditCommand(ctx *commandContext) *cobra.Command {
	var flags creationFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a creation; unspecified flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				existing, err := findCreation(ws, args[0])
				if err != nil {
					return err
				}

				input := &svc.CreationInput{
					Title:       existing.Title,
					Type:        string(existing.Type),
					DateCreated: existing.DateCreated,
					Rights:      existing.Rights,
					Notes:       existing.Notes,
					Tags:        existing.Tags,
				}
				changed := cmd.Flags().Changed
				if changed("title") {
					input.Title = flags.title
				}
				if changed("type") {
					input.Type = flags.typ
				}
				if changed("date") {
					input.DateCreated = flags.date
				}
				if changed("rights") {
					input.Rights = flags.rights
				}
				if changed("notes") {
					input.Notes = flags.notes
				}
				if changed("tag") {
					input.Tags = flags.tags
				}
				if changed("folder") {
					folderID, err := resolveFolder(flags.folder, ws.Folders())
					if err != nil {
						return err
					}
					root := ""
					if folderID == nil {
						folderID = &root
					}
					input.FolderID = folderID
				}

				updated, err := ws.UpdateCreation(existing.ID, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s)\n", updated.Title, updated.ID)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newCreationRemoveCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a creation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				pd, err := ws.RequestDeleteCreation(args[0])
				if err != nil {
					return err
				}
				return confirmDelete(cmd.InOrStdin(), cmd.OutOrStdout(), ws, pd, assumeYes)
			})
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newCreationListCommand(ctx *commandContext) *cobra.Command {
	var (
		folder string
		tab    string
		query  string
		recent int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the creations filed in a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				folders := ws.Folders()
				folderID, err := resolveFolder(folder, folders)
				if err != nil {
					return err
				}
				if err := ws.NavigateTo(folderID); err != nil {
					return err
				}
				if err := ws.SetActiveTab(tab); err != nil {
					return err
				}
				ws.SetSearchQuery(query)

				creations := ws.VisibleCreations()
				if recent > 0 && len(creations) > recent {
					creations = creations[:recent]
				}

				out := cmd.OutOrStdout()
				if crumbs := ws.Breadcrumbs(); len(crumbs) > 0 {
					names := make([]string, len(crumbs))
					for i, f := range crumbs {
						names[i] = f.Name
					}
					fmt.Fprintln(out, "/ "+strings.Join(names, " / "))
				} else {
					fmt.Fprintln(out, "/")
				}
				if len(creations) == 0 {
					fmt.Fprintln(out, "No creations")
					return nil
				}
				writeCreationTable(out, creations)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Folder id or path (default root)")
	cmd.Flags().StringVar(&tab, "tab", "all", "Type tab: all, image, text, music, video")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search titles, notes, rights and tags")
	cmd.Flags().IntVarP(&recent, "limit", "n", 0, "Show at most n creations")
	return cmd
}

func newCreationShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a creation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				c, err := findCreation(ws, args[0])
				if err != nil {
					return err
				}

				rows := [][]string{
					{"ID", c.ID},
					{"Title", c.Title},
					{"Type", string(c.Type)},
					{"Date", c.DateCreated},
					{"Folder", folderLabel(c.FolderID, ws.Folders())},
					{"Rights", stringOrDash(c.Rights)},
					{"Notes", stringOrDash(c.Notes)},
					{"Tags", stringOrDash(strings.Join(c.Tags, ", "))},
				}
				if o, ok := c.Imported(); ok {
					rows = append(rows,
						[]string{"Source", o.Source},
						[]string{"Source URL", stringOrDash(o.SourceURL)},
						[]string{"Thumbnail", stringOrDash(o.ThumbnailURL)},
					)
				} else {
					rows = append(rows, []string{"Source", "manual"})
				}

				out := cmd.OutOrStdout()
				fmt.Fprint(out, catalogTable{headers: []string{"Field", "Value"}, rows: rows}.render(out))
				return nil
			})
		},
	}
}

func findCreation(ws svc.Workspace, id string) (*models.Creation, error) {
	for _, c := range ws.Creations() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("creation %q not found", id)}
}

func writeCreationTable(out io.Writer, creations []models.Creation) {
	rows := make([][]string, 0, len(creations))
	for i, c := range creations {
		source := "manual"
		if o, ok := c.Imported(); ok {
			source = o.Source
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.ID,
			c.Title,
			string(c.Type),
			c.DateCreated,
			stringOrDash(strings.Join(c.Tags, ", ")),
			source,
		})
	}
	listing := catalogTable{
		headers: []string{"#", "ID", "Title", "Type", "Date", "Tags", "Source"},
		rows:    rows,
		right:   []int{0},
	}
	fmt.Fprint(out, listing.render(out))
}
