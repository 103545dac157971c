package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/core"
)

var sessionVerbose bool

type createTask func(acc core.Account, session *core.Session) (core.Operation, error)

// sessionCommand builds a command that runs one operation on an account and saves the result.
func sessionCommand(use, short, long, progress, success string, persist bool, create createTask) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [USERNAME]",
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := f.Open()
			if err != nil {
				return err
			}
			defer ws.Close()

			var username string
			if len(args) > 0 {
				username = args[0]
			}
			acc, err := resolveAccount(ws.Accounts, username)
			if err != nil {
				return err
			}

			session := &core.Session{}
			op, err := create(acc, session)
			if err != nil {
				return err
			}

			log.Info().Msgf("%s %s...", progress, bold(acc.LoginUsername()))
			opErr := runOperation(cmd.Context(), op, sessionVerbose)

			if persist {
				if err := ws.Save(); err != nil {
					return logError(err, "", "could not save accounts")
				}
			}
			if opErr != nil {
				printSession(session)
				return logError(opErr, "", fmt.Sprintf("%s failed", use))
			}

			logSuccess(success, bold(acc.LoginUsername()))
			printSession(session)
			return nil
		},
	}
}

var checkCmd = sessionCommand("check",
	"Check whether the stored access token is still valid",
	`Asks the authentication server to validate the access token. Nothing is changed
on failure, use 'mcauth refresh' to get a new token.`,
	"Checking", "token of %s is valid", false,
	func(acc core.Account, session *core.Session) (core.Operation, error) {
		return acc.CreateCheckTask(session)
	},
)

var refreshCmd = sessionCommand("refresh",
	"Exchange the access token for a new one",
	`Refreshes the access token and the game profiles without asking for the password.`,
	"Refreshing", "refreshed token of %s", true,
	func(acc core.Account, session *core.Session) (core.Operation, error) {
		return acc.CreateRefreshTask(session)
	},
)

var logoutCmd = sessionCommand("logout",
	"Invalidate the access token",
	`Invalidates the access token on the server and forgets it. The account, its
profiles and its client token stay in the accounts file.`,
	"Logging out", "logged out %s", true,
	func(acc core.Account, session *core.Session) (core.Operation, error) {
		return acc.CreateLogoutTask(session)
	},
)

func init() {
	for _, c := range []*cobra.Command{checkCmd, refreshCmd, logoutCmd} {
		rootCmd.AddCommand(c)
		c.Flags().BoolVarP(&sessionVerbose, "verbose", "v", false, "Print the operation log")
	}
}
