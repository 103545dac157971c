package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var accountsRemoveLogout bool

var accountsRemoveCmd = &cobra.Command{
	Use:     "remove USERNAME",
	Aliases: []string{"rm"},
	Short:   "Remove an account from the accounts file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := f.Open()
		if err != nil {
			return err
		}
		defer ws.Close()

		acc, err := resolveAccount(ws.Accounts, args[0])
		if err != nil {
			return err
		}

		if accountsRemoveLogout && acc.AccessToken() != "" {
			op, err := acc.CreateLogoutTask(nil)
			if err != nil {
				return err
			}
			if err := runOperation(cmd.Context(), op, false); err != nil {
				log.Warn().Err(err).Msg("Could not invalidate the access token, removing the account anyway")
			}
		}

		if err := ws.Accounts.Remove(args[0]); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return logError(err, "", "could not save accounts")
		}
		logSuccess("removed %s", bold(args[0]))
		return nil
	},
}

func init() {
	accountsCmd.AddCommand(accountsRemoveCmd)

	accountsRemoveCmd.Flags().BoolVar(&accountsRemoveLogout, "logout", false, "Invalidate the access token before removing the account")
}
