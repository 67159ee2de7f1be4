package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/transport"
)

type askOptions struct {
	history     string
	historyFile string
	jsonOutput  bool
	timeout     time.Duration
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Answer a single question",
		Example: `  coursebot ask "What does lesson 3 of the MCP course cover?"
  coursebot ask --provider gemini --json "Which courses mention retrieval?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, root, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.history, "history", "", "prior conversation as text")
	cmd.Flags().StringVar(&opts.historyFile, "history-file", "", "read the prior conversation from a file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the full answer as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall time limit")
	cmd.MarkFlagsMutuallyExclusive("history", "history-file")
	return cmd
}

func runAsk(cmd *cobra.Command, root *rootOptions, opts *askOptions, query string) error {
	history := opts.history
	if opts.historyFile != "" {
		data, err := os.ReadFile(opts.historyFile)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		history = string(data)
	}

	req := &api.AskRequest{Query: query, History: history}
	if apiErr := api.ValidateRequest(req, api.DefaultValidationConfig()); apiErr != nil {
		return apiErr
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	a, err := newApp(ctx, root)
	if err != nil {
		return err
	}
	defer a.Close()

	asker := transport.Chain(
		transport.Recovery(),
		transport.RequestID(),
	)(transport.NewEngineAsker(a.gen, a.manager))

	resp, err := asker.Ask(ctx, req)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	}
	if resp.StopReason == "error" {
		return fmt.Errorf("provider %s failed", resp.Provider)
	}
	return nil
}
