package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"creationrights/internal/config"
	models "creationrights/internal/domain/models/catalog"
	svc "creationrights/internal/domain/services/catalog"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|->",
		Short: "Merge a JSON array of creation records; existing ids are skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readImportFile(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return ctx.withWorkspace(cmd, func(ws svc.Workspace) error {
				summary, err := ws.ImportCreations(records)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d creation(s), skipped %d already cataloged\n",
					summary.Added, summary.Skipped)
				return nil
			})
		},
	}
}

func readImportFile(stdin io.Reader, path string) ([]models.Creation, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []models.Creation
	if err := json.NewDecoder(io.LimitReader(r, config.MaxRequestBodyBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse import file %s: %w", path, err)
	}
	return records, nil
}
