package cmd

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/pkg/client"
)

var auditLogOpts client.ListAuditsOpts

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Retrieve and display audit log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching audit log...")
		audits, correlation, err := cli.ListAudits(cmd.Context(), auditLogOpts)
		if err != nil {
			return logError(err, correlation, "failed to fetch audit log")
		}

		log.Info().Msgf("Retrieved %d audit entries", len(audits))

		t := table.NewWriter()
		t.AppendHeader(table.Row{
			"Time", "Action", "Account", "Success", "Fingerprint", "Duration", "Error",
		})

		for _, e := range audits {
			status := greenCheck
			if !e.Success {
				status = redCross
			}
			account := "(unknown)"
			if e.Account != "" {
				account = truncate(e.Account, 35)
			}

			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				e.Action,
				account,
				status,
				faint(e.Fingerprint),
				e.Duration.Round(time.Millisecond),
				e.Error,
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)

	auditLogCmd.Flags().UintVarP(&auditLogOpts.Limit, "limit", "n", 25, "Number of audit entries to retrieve")
	auditLogCmd.Flags().StringVar(&auditLogOpts.CorrelationID, "correlation-id", "", "Only entries of this request")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Account, "account", "", "Only entries of this login username")
	auditLogCmd.Flags().StringVar(&auditLogOpts.Fingerprint, "fingerprint", "", "Only entries of this token fingerprint")
}
