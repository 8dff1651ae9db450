package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reqmatch/reqmatch/application/service"
)

func submitCmd() *cobra.Command {
	var (
		title     string
		file      string
		createdBy string
	)

	cmd := &cobra.Command{
		Use:   "submit [text]",
		Short: "Submit a requirement for matching",
		Long: `Submit a capability requirement. The text is split into items on
newlines; each non-empty line becomes one matchable item.

Provide the text as an argument or read it from a file with --file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) == 0 {
				return fmt.Errorf("provide requirement text or --file")
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				requirement, items, err := client.Requirements.CreateFromFile(
					ctx, title, filepath.Base(file), service.SplitItems(string(data)), createdBy,
				)
				if err != nil {
					return err
				}
				fmt.Printf("Requirement %d created from %s (%d items, session %s)\n",
					requirement.ID(), requirement.SourceFile(), len(items), requirement.SessionID())
				return nil
			}

			requirement, items, err := client.Requirements.Create(ctx, title, args[0], createdBy)
			if err != nil {
				return err
			}
			fmt.Printf("Requirement %d created (%d items, session %s)\n",
				requirement.ID(), len(items), requirement.SessionID())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Requirement title")
	cmd.Flags().StringVar(&file, "file", "", "Read requirement text from a file")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Submitter identity recorded on the requirement")

	return cmd
}
