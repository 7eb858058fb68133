package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
	"creationrights/internal/service/catalog"
)

func newFolderCommand(ctx *commandContext) *cobra.Command {
	folderCmd := &cobra.Command{
		Use:   "folder",
		Short: "Organise creations into folders",
	}

	folderCmd.AddCommand(newFolderAddCommand(ctx))
	folderCmd.AddCommand(newFolderRemoveCommand(ctx))
	folderCmd.AddCommand(newFolderTreeCommand(ctx))

	return folderCmd
}

func newFolderAddCommand(ctx *commandContext) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				parentID, err := resolveFolder(parent, ws.Folders())
				if err != nil {
					return err
				}
				if err := ws.NavigateTo(parentID); err != nil {
					return err
				}
				folder, err := ws.CreateFolder(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created folder %s (%s)\n",
					folderLabel(folder.ID, ws.Folders()), folder.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "Parent folder id or path (default root)")
	return cmd
}

func newFolderRemoveCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "rm <folder>",
		Short: "Delete a folder with its subfolders and their creations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				folderID, err := resolveFolder(args[0], ws.Folders())
				if err != nil {
					return err
				}
				if folderID == nil {
					return fmt.Errorf("the root folder cannot be deleted")
				}
				pd, err := ws.RequestDeleteFolder(*folderID)
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

func newFolderTreeCommand(ctx *commandContext) *cobra.Command {
	var collapsed bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the folder tree with creation counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				folders := ws.Folders()
				expanded := make(map[string]bool, len(folders))
				if !collapsed {
					for _, f := range folders {
						expanded[f.ID] = true
					}
				}
				nodes, err := catalog.RenderableTree(nil, folders, expanded)
				if err != nil {
					return err
				}

				counts := make(map[string]int)
				for _, c := range ws.Creations() {
					counts[c.FolderID]++
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "/ (%d)\n", counts[""])
				printTree(out, nodes, counts, "")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&collapsed, "collapsed", false, "Only show top-level folders")
	return cmd
}

func printTree(out io.Writer, nodes []*models.TreeNode, counts map[string]int, indent string) {
	for i, node := range nodes {
		branch, next := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, next = "└── ", "    "
		}
		marker := ""
		if node.HasChildren && !node.Expanded {
			marker = " +"
		}
		fmt.Fprintf(out, "%s%s%s (%d)%s  %s\n",
			indent, branch, node.Name, counts[node.ID], marker, node.ID)
		printTree(out, node.Children, counts, indent+next)
	}
}
