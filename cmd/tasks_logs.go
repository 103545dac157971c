package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tasksLogsCmd = &cobra.Command{
	Use:   "logs NAME",
	Short: "See logs of a background task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name == "" {
			return fmt.Errorf("task name cannot be empty")
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Debug().Msgf("Retrieving logs for task '%s'...", name)
		logs, err := cli.GetTaskLogs(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("retrieving task logs: %w", err)
		}

		log.Info().Msgf("Logs for task '%s':", name)
		fmt.Println("----------------------------------------")
		printLogs(logs)
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksLogsCmd)
}
