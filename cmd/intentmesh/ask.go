package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/hupe1980/intentmesh/internal/bootstrap"
)

func newAskCmd(c *cli) *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask",
		Short: "Route a single query and print the response as JSON",
		Long: `Route one query through classifier, domain agent and conversation memory.

Examples:
  intentmesh ask --query "como solicito vacaciones?"
  intentmesh ask --query "rollback en kubernetes" --conversation-id ops-42
  intentmesh ask --query "hola" --use-heuristic-router --hide-debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, c)
		},
	}

	askCmd.Flags().String("query", "", "user query to route")
	askCmd.Flags().String("conversation-id", "cli-session", "conversation id")
	askCmd.Flags().Bool("use-heuristic-router", false, "use the keyword router instead of the LLM classifier")
	askCmd.Flags().Bool("hide-debug", false, "do not print debug metadata")
	_ = askCmd.MarkFlagRequired("query")

	return askCmd
}

func runAsk(cmd *cobra.Command, c *cli) error {
	query, _ := cmd.Flags().GetString("query")
	conversationID, _ := cmd.Flags().GetString("conversation-id")
	heuristic, _ := cmd.Flags().GetBool("use-heuristic-router")
	hideDebug, _ := cmd.Flags().GetBool("hide-debug")

	if heuristic {
		c.cfg.Router.UseHeuristicRouter = true
	}

	svc, err := bootstrap.Build(c.cfg, c.bootstrapOptions(c.logger(cmd.ErrOrStderr()))...)
	if err != nil {
		return err
	}

	resp, err := svc.Ask(cmd.Context(), query, conversationID)
	if err != nil {
		return err
	}
	if hideDebug {
		stripped := resp.WithoutDebug()
		resp = &stripped
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
