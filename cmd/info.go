package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/buildinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about the mcauth installation",
	RunE: func(cmd *cobra.Command, args []string) error {
		if f.RemoteAddr == "" {
			return infoLocally(cmd, args)
		}
		return infoRemote(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func infoRemote(cmd *cobra.Command, _ []string) error {
	cli, err := f.GetClient()
	if err != nil {
		return err
	}
	log.Info().Msg("Fetching build info from server...")
	info, correlation, err := cli.Info(cmd.Context())
	if err != nil {
		return logError(err, correlation, "failed to get info from server")
	}
	printInfo(info)
	return nil
}

func infoLocally(_ *cobra.Command, _ []string) error {
	info := buildinfo.GetBuildInfo()
	printInfo(&info)

	ws, err := f.Open()
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Println(bold("\n── Providers ──"))
	for _, t := range ws.Registry.Types() {
		fmt.Printf("  %s  %s %s\n", bold(t.ID()), t.Text(), faint("("+string(t.Kind())+")"))
	}
	fmt.Println(bold("\n── Accounts ──"))
	fmt.Printf("  %s:     %s\n", faint("File"), ws.Store.Path())
	fmt.Printf("  %s:    %d\n", faint("Count"), ws.Accounts.Len())
	if active := ws.Accounts.Active(); active != nil {
		fmt.Printf("  %s:   %s\n", faint("Active"), active.LoginUsername())
	}
	return nil
}

func printInfo(info *buildinfo.Info) {
	fmt.Println(bold("\n── mcauth Build Information ──"))
	fmt.Printf("  %s:    %s\n", faint("Version"), info.Version)
	fmt.Printf("  %s:     %s\n", faint("Commit"), info.CommitHash)
}
