package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	provider   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "coursebot",
		Short:        "Course assistant backed by Claude or Gemini",
		Long:         "coursebot answers questions about course material. The model may call course tools served over MCP before it answers.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")
	cmd.PersistentFlags().StringVarP(&opts.provider, "provider", "p", "", "provider type: claude, gemini or random (overrides config)")

	cmd.AddCommand(
		newAskCmd(opts),
		newServeCmd(opts),
		newProvidersCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coursebot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("coursebot version %s\n", version)
		},
	}
}
