package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbridge/zenapi/pkg/zenapi"
)

func newSuggestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <payee> [payee...]",
		Short: "Ask the server for categorization hints by payee",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.Context(), args)
		},
	}
	return cmd
}

func runSuggest(ctx context.Context, payees []string) error {
	client, path, err := newAPIClient()
	if err != nil {
		return err
	}

	req := make([]zenapi.Suggestion, len(payees))
	for i, payee := range payees {
		req[i] = zenapi.Suggestion{"payee": payee}
	}

	before := client.Token()
	res, err := client.Suggest(ctx, req)
	if err != nil {
		return err
	}
	persistRotatedToken(client, before, path)

	for i, s := range res {
		if i >= len(payees) {
			break
		}
		fmt.Printf("%-24s", payees[i])
		if tag, ok := s["tag"]; ok {
			fmt.Printf(" tag: %v", tag)
		}
		if merchant, ok := s["merchant"]; ok {
			fmt.Printf(" merchant: %v", merchant)
		}
		fmt.Println()
	}

	return nil
}
