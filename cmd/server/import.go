package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/spf13/cobra"
)

type importOptions struct {
	userID        string
	itemID        string
	file          string
	sheet         string
	includeHeader bool
}

func newImportCardsCmd(opts *rootOptions) *cobra.Command {
	in := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import-cards",
		Short: "Import flashcards for a user from an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(in.userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			var itemID *uuid.UUID
			if in.itemID != "" {
				parsed, err := uuid.Parse(in.itemID)
				if err != nil {
					return fmt.Errorf("invalid --item: %w", err)
				}
				itemID = &parsed
			}

			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}

			f, err := os.Open(filepath.Clean(in.file))
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer func() { _ = f.Close() }()

			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, log, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer app.cleanup()

			report, err := app.cardService.ImportSpreadsheet(cmd.Context(), userID, itemID, f,
				generation.SpreadsheetOptions{Sheet: in.sheet, IncludeHeader: in.includeHeader})
			if report != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "created %d cards, skipped %d rows\n", len(report.Created), len(report.Skipped))
				for _, s := range report.Skipped {
					fmt.Fprintf(out, "  entry %d: %s\n", s.Index, s.Reason)
				}
			}
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.userID, "user", "", "owner user ID (required)")
	cmd.Flags().StringVar(&in.itemID, "item", "", "learning item ID to attach the cards to")
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "path to the .xlsx workbook (required)")
	cmd.Flags().StringVar(&in.sheet, "sheet", "", "sheet name (default first sheet)")
	cmd.Flags().BoolVar(&in.includeHeader, "include-header", false, "treat the first row as a card")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
