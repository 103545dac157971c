package cmd

import (
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect background tasks of a running emulator",
	Long:  `List, trigger and read the logs of the background tasks of an emulator started with 'mcauth serve'.`,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
