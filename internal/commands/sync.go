package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finbridge/zenapi/internal/config"
	"github.com/finbridge/zenapi/pkg/oauth"
	"github.com/finbridge/zenapi/pkg/zenapi"
)

func newSyncCommand() *cobra.Command {
	var since int64

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull changes from the server and summarize them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), since)
		},
	}
	cmd.Flags().Int64Var(&since, "since", 0, "server timestamp to sync from (0 requests a full pull)")

	return cmd
}

func runSync(ctx context.Context, since int64) error {
	client, path, err := newAPIClient()
	if err != nil {
		return err
	}

	var payload *zenapi.Diff
	if since > 0 {
		payload = &zenapi.Diff{ServerTimestamp: since}
	}

	before := client.Token()
	diff, err := client.GetDiff(ctx, payload)
	if err != nil {
		return err
	}
	persistRotatedToken(client, before, path)

	fmt.Printf("server timestamp: %d (pass it to --since on the next run)\n", diff.ServerTimestamp)
	printCount("instruments", len(diff.Instrument))
	printCount("companies", len(diff.Company))
	printCount("users", len(diff.User))
	printCount("accounts", len(diff.Account))
	printCount("tags", len(diff.Tag))
	printCount("merchants", len(diff.Merchant))
	printCount("reminders", len(diff.Reminder))
	printCount("reminder markers", len(diff.ReminderMarker))
	printCount("transactions", len(diff.Transaction))
	printCount("budgets", len(diff.Budget))
	printCount("deletions", len(diff.Deletion))
	for kind := range diff.Extra {
		fmt.Printf("  %-18s (unknown kind, passed through)\n", kind)
	}

	total := decimal.Zero
	counted := 0
	for _, acc := range diff.Account {
		if acc.InBalance && !acc.Archive {
			total = total.Add(decimal.NewFromFloat(acc.Balance))
			counted++
		}
	}
	if counted > 0 {
		fmt.Printf("total balance across %d accounts: %s\n", counted, total.StringFixed(2))
	}

	return nil
}

func printCount(kind string, n int) {
	if n > 0 {
		fmt.Printf("  %-18s %d\n", kind, n)
	}
}

// newAPIClient loads the persisted token pair and builds an API client
// around it, returning the token path for later persistence.
func newAPIClient() (*zenapi.Client, string, error) {
	path, err := tokenPath()
	if err != nil {
		return nil, "", err
	}
	tok, err := loadToken(path)
	if err != nil {
		return nil, "", fmt.Errorf("no usable token, run `zenapi login` first: %w", err)
	}

	client := zenapi.CreateWithToken(
		config.OAuthConfig(),
		tok,
		zenapi.WithBaseURL(config.GetAPIBaseURL()),
	)
	return client, path, nil
}

// persistRotatedToken re-saves the token file when a call refreshed the
// pair behind the scenes.
func persistRotatedToken(client *zenapi.Client, before *oauth.Token, path string) {
	after := client.Token()
	if after == nil || (before != nil && after.AccessToken == before.AccessToken) {
		return
	}
	if err := saveToken(path, after); err != nil {
		fmt.Printf("warning: could not persist refreshed token: %v\n", err)
	}
}
