package cmd

import (
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail of a running emulator",
	Long:  `View audit logs and active tokens of an emulator started with 'mcauth serve'.`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
