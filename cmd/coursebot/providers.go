package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rhuss/coursebot/pkg/provider/anthropic"
	"github.com/rhuss/coursebot/pkg/provider/factory"
	"github.com/rhuss/coursebot/pkg/provider/gemini"
)

func newProvidersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the providers that have API keys configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			names := factory.Available(cfg.Credentials())
			if len(names) == 0 {
				return fmt.Errorf("%w: set ANTHROPIC_API_KEY or GOOGLE_API_KEY", factory.ErrNoProviders)
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				switch name {
				case factory.TypeClaude:
					fmt.Fprintf(out, "%s\t%s\n", name, modelOr(cfg.Provider.Anthropic.Model, anthropic.DefaultModel))
				case factory.TypeGemini:
					fmt.Fprintf(out, "%s\t%s\n", name, modelOr(cfg.Provider.Gemini.Model, gemini.DefaultModel))
				default:
					fmt.Fprintf(out, "%s\n", name)
				}
			}
			fmt.Fprintf(out, "selected: %s\n", cfg.Provider.Type)
			return nil
		},
	}
}

func modelOr(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
