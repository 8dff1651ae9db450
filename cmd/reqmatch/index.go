package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [feature-id]",
		Short: "Index catalog features for the active embedding model",
		Long: `Embed catalog features with the default provider and store the vectors
for similarity search. Without an argument all active features of active
products are indexed; with a feature ID only that feature is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid feature id %q", args[0])
				}
				if err := client.Catalog.IndexFeature(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Printf("Feature %d indexed\n", id)
				return nil
			}

			indexed, err := client.Catalog.IndexFeatures(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d features indexed\n", indexed)
			return nil
		},
	}

	return cmd
}
