package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var profilesAccount string

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "Show and select the game profiles of an account",
}

var profilesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the game profiles of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := f.Open()
		if err != nil {
			return err
		}
		defer ws.Close()

		acc, err := resolveAccount(ws.Accounts, profilesAccount)
		if err != nil {
			return err
		}

		current, hasCurrent := acc.CurrentProfile()

		t := table.NewWriter()
		t.AppendHeader(table.Row{"", "#", "Name", "ID", "Type", "Avatar"})
		for idx, p := range acc.Profiles() {
			marker := ""
			if hasCurrent && current.ID() == p.ID() {
				marker = color.GreenString("*")
			}
			typ := p.TypeText()
			if p.Legacy() {
				typ += " " + color.YellowString("(legacy)")
			}
			t.AppendRow(table.Row{
				marker,
				idx,
				bold(p.Name()),
				faint(p.ID()),
				typ,
				faint(p.Avatar()),
			})
		}

		fmt.Printf("Profiles of %s:\n", bold(acc.LoginUsername()))
		applyTableFormat(t)
		t.Render()
		return nil
	},
}

var profilesUseCmd = &cobra.Command{
	Use:   "use PROFILE",
	Short: "Select the profile to play with, by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := f.Open()
		if err != nil {
			return err
		}
		defer ws.Close()

		acc, err := resolveAccount(ws.Accounts, profilesAccount)
		if err != nil {
			return err
		}

		id := args[0]
		for _, p := range acc.Profiles() {
			if p.Name() == args[0] {
				id = p.ID()
				break
			}
		}
		if !acc.SetCurrentProfile(id) {
			return fmt.Errorf("account '%s' has no profile '%s'", acc.LoginUsername(), args[0])
		}
		if err := ws.Save(); err != nil {
			return logError(err, "", "could not save accounts")
		}
		current, _ := acc.CurrentProfile()
		logSuccess("playing as %s", bold(current.Name()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesUseCmd)

	profilesCmd.PersistentFlags().StringVarP(&profilesAccount, "account", "a", "", "Account to use (default is the active account)")
}
