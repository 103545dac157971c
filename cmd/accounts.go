package cmd

import (
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:     "accounts",
	Aliases: []string{"account", "acc"},
	Short:   "Manage the stored accounts",
	Long:    `List, select and remove the accounts stored in the accounts file.`,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}
