package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reqmatch/reqmatch/application/service"
)

func runCmd() *cobra.Command {
	var partialThreshold float64

	cmd := &cobra.Command{
		Use:   "run <requirement-id>",
		Short: "Run matching for a submitted requirement",
		Long: `Run the matching pipeline for one requirement: embed items that do not
have a vector for the active model yet, search the feature catalog, and
replace the requirement's match records with the new results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid requirement id %q", args[0])
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			var opts []service.RunOption
			if cmd.Flags().Changed("partial-threshold") {
				opts = append(opts, service.WithPartialThreshold(partialThreshold))
			}

			summary, err := client.Matching.Run(cmd.Context(), id, opts...)
			if err != nil {
				return err
			}

			fmt.Printf("Requirement %d: %d items, %d candidates\n",
				summary.RequirementID(), summary.TotalItems(), summary.TotalMatches())
			fmt.Printf("  matched: %d  partial: %d  unmatched: %d\n",
				summary.Matched(), summary.PartialMatched(), summary.Unmatched())
			return nil
		},
	}

	cmd.Flags().Float64Var(&partialThreshold, "partial-threshold", 0,
		"Override the partial-match threshold for this run (0..1)")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List submitted requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			requirements, err := client.Requirements.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(requirements) == 0 {
				fmt.Println("No requirements submitted yet.")
				return nil
			}

			for _, req := range requirements {
				title := req.Title()
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("%6d  %-10s  %-19s  %s\n",
					req.ID(), req.Status(), req.CreatedAt().Format("2006-01-02 15:04:05"), title)
			}
			return nil
		},
	}
}
