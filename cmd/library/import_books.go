package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rahulmaharshi/manage-library-app/library/features/command/importbooks"
)

func newImportBooksCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import-books <file.csv>",
		Short: "Add every book of a CSV file to the catalog",
		Long: "Reads a CSV file with at least the columns title, isbn and author and adds each row as a book.\n" +
			"Rows that are rejected are reported with their line number, the other rows are imported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()

			a, err := openApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.close(context.Background()) }()

			handler, err := a.importBooksHandler()
			if err != nil {
				return err
			}

			result, err := handler.Handle(cmd.Context(), importbooks.BuildCommand(file, systemActor(), time.Now()))
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if !result.Succeeded() {
				return fmt.Errorf("importing %s: %s", args[0], result.Message)
			}

			for _, failure := range result.RowFailures {
				if _, err := fmt.Fprintf(out, "line %d (%s): %s %s\n", failure.Line, failure.Key, failure.Reason, failure.Message); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintln(out, result.Message)

			return err
		},
	}
}
