package cmd

import (
	"github.com/spf13/cobra"
)

var accountsUseCmd = &cobra.Command{
	Use:   "use USERNAME",
	Short: "Select the account commands use by default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := f.Open()
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := ws.Accounts.SetActive(args[0]); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return logError(err, "", "could not save accounts")
		}
		logSuccess("%s is now the active account", bold(args[0]))
		return nil
	},
}

func init() {
	accountsCmd.AddCommand(accountsUseCmd)
}
