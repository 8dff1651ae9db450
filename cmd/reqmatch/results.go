package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reqmatch/reqmatch/domain/matching"
)

func resultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <requirement-id>",
		Short: "Show match results for a requirement",
		Args:  cobra.ExactArgs(1),
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

			results, err := client.Matching.Results(cmd.Context(), id)
			if err != nil {
				return err
			}

			printGroup("Matched", results.Matched())
			printGroup("Partial", results.PartialMatched())
			printGroup("Unmatched", results.Unmatched())
			return nil
		},
	}
}

func printGroup(label string, rows []matching.ResultRow) {
	fmt.Printf("%s (%d)\n", label, len(rows))
	for _, row := range rows {
		fmt.Printf("  #%d  %.4f  %s / %s\n",
			row.Rank(), row.Similarity(), row.ProductName(), row.FeatureName())
		fmt.Printf("      item: %s\n", row.ItemText())
		if desc := row.FeatureDescription(); desc != "" {
			fmt.Printf("      feature: %s\n", desc)
		}
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <requirement-id>",
		Short: "Show match statistics for a requirement",
		Args:  cobra.ExactArgs(1),
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

			stats, err := client.Matching.Statistics(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("Items:      %d\n", stats.TotalItems())
			fmt.Printf("Candidates: %d\n", stats.TotalMatches())
			fmt.Printf("Matched:    %d\n", stats.StatusCount(matching.StatusMatched))
			fmt.Printf("Partial:    %d\n", stats.StatusCount(matching.StatusPartialMatched))
			fmt.Printf("Unmatched:  %d\n", stats.StatusCount(matching.StatusUnmatched))
			if stats.TotalMatches() > 0 {
				fmt.Printf("Similarity: avg %.4f  max %.4f  min %.4f\n",
					stats.AvgSimilarity(), stats.MaxSimilarity(), stats.MinSimilarity())
			}
			return nil
		},
	}
}
