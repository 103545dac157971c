package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var auditTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List currently active tokens",
	Long: `Retrieves all access tokens the emulator has issued that are neither expired nor invalidated.
Tokens are identified by their fingerprint, see 'mcauth fingerprint'.`,
	Example: `  mcauth audit tokens --server http://127.0.0.1:25585`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching active tokens...")
		tokens, correlation, err := cli.ListActiveTokens(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to fetch active tokens")
		}

		if len(tokens) == 0 {
			log.Info().Msg("No active tokens found")
			return nil
		}
		log.Debug().Msgf("Retrieved %d active token(s)", len(tokens))

		t := table.NewWriter()
		t.AppendHeader(table.Row{
			"Issued", "Expires", "Fingerprint", "User", "Profile", "Client Token",
		})

		for _, tok := range tokens {
			timeLeft := time.Until(tok.ExpiresAt).Round(time.Minute)
			t.AppendRow(table.Row{
				tok.IssuedAt.Format(time.RFC3339),
				fmt.Sprintf("%s (%s)", tok.ExpiresAt.Format("15:04"), faint(timeLeft.String())),
				bold(tok.Fingerprint),
				tok.UserID,
				tok.ProfileID,
				faint(truncate(tok.ClientToken, 12)),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditTokensCmd)
}
