package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reqmatch/reqmatch/domain/embedding"
)

func providerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage embedding provider configurations",
	}

	cmd.AddCommand(providerListCmd())
	cmd.AddCommand(providerAddCmd())
	cmd.AddCommand(providerTestCmd())
	cmd.AddCommand(providerDefaultCmd())

	return cmd
}

func providerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provider configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			configs, err := client.Configs.Find(cmd.Context())
			if err != nil {
				return err
			}
			if len(configs) == 0 {
				fmt.Println("No provider configurations.")
				return nil
			}

			for _, cfg := range configs {
				marks := make([]string, 0, 2)
				if cfg.IsDefault() {
					marks = append(marks, "default")
				}
				if !cfg.Active() {
					marks = append(marks, "inactive")
				}
				suffix := ""
				if len(marks) > 0 {
					suffix = " [" + strings.Join(marks, ", ") + "]"
				}
				fmt.Printf("%6d  %-20s  %-18s  dim=%d%s\n",
					cfg.ID(), cfg.Name(), cfg.Kind(), cfg.Dimension(), suffix)
			}
			return nil
		},
	}
}

func providerAddCmd() *cobra.Command {
	var (
		kind      string
		dimension int
		endpoint  string
		apiKey    string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a provider configuration",
		Long: `Add an embedding provider configuration. The API key is encrypted at
rest when RM_SECRET_KEY is set. Kinds: openai, openai-compatible,
siliconflow, zhipuai, qwen, local.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			encrypted, err := client.EncryptKey(apiKey)
			if err != nil {
				return err
			}

			var params map[string]string
			if model != "" {
				params = map[string]string{"model": model}
			}

			cfg, err := client.Configs.Save(cmd.Context(), embedding.NewModelConfig(
				args[0], embedding.Kind(kind), dimension, endpoint, encrypted, params,
			))
			if err != nil {
				return err
			}

			fmt.Printf("Provider configuration %d (%s) created\n", cfg.ID(), cfg.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(embedding.KindOpenAI), "Provider kind")
	cmd.Flags().IntVar(&dimension, "dimension", 0, "Embedding dimension reported by the model")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "API endpoint (defaults per kind)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for hosted providers")
	cmd.Flags().StringVar(&model, "model", "", "Upstream model identifier (defaults to the configuration name)")

	return cmd
}

func providerTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <config-id>",
		Short: "Test connectivity of a provider configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid config id %q", args[0])
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Providers.TestConnection(cmd.Context(), id); err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}
			fmt.Println("Connection OK")
			return nil
		},
	}
}

func providerDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <config-id>",
		Short: "Mark a provider configuration as the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid config id %q", args[0])
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Configs.SetDefault(cmd.Context(), id); err != nil {
				return err
			}
			client.Providers.InvalidateAll()
			fmt.Printf("Configuration %d is now the default\n", id)
			return nil
		},
	}
}
