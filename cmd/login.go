package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/providers/mojang"
)

var (
	loginPassword      string
	loginPasswordStdin bool
	loginProvider      string
	loginVerbose       bool
)

var loginCmd = &cobra.Command{
	Use:   "login USERNAME",
	Short: "Log an account in with username and password",
	Long: `Authenticates against the provider's authentication server and stores the
returned tokens and game profiles in the accounts file.
A failed login leaves an already stored account untouched.

The password is read from --password, the MCAUTH_PASSWORD environment variable
or, with --password-stdin, from the first line of stdin.`,
	Example: `  # Log in against a local emulator
  mcauth serve -c mcauth.yaml &
  MCAUTH_PASSWORD=secret mcauth login -c mcauth.yaml alex@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(args[0])
		if username == "" {
			return fmt.Errorf("username cannot be empty")
		}
		password, err := readPassword()
		if err != nil {
			return err
		}

		ws, err := f.Open()
		if err != nil {
			return err
		}
		defer ws.Close()

		acc := ws.Accounts.Find(username)
		if acc == nil {
			if acc, err = ws.Registry.Create(loginProvider); err != nil {
				return err
			}
			log.Debug().Msgf("Creating new %s account", loginProvider)
		}

		session := &core.Session{}
		op, err := acc.CreateLoginTask(username, password, session)
		if err != nil {
			if errors.Is(err, core.ErrUnsupportedCredential) {
				return fmt.Errorf("provider '%s' does not log in with a password", acc.Type().ID())
			}
			return err
		}

		log.Info().Msgf("Logging in %s...", bold(username))
		if err := runOperation(cmd.Context(), op, loginVerbose); err != nil {
			return logError(err, "", "login failed")
		}

		ws.Accounts.Add(acc)
		if ws.Accounts.Active() == nil {
			_ = ws.Accounts.SetActive(username)
		}
		if err := ws.Save(); err != nil {
			return logError(err, "", "login succeeded but the account could not be saved")
		}

		logSuccess("logged in as %s", bold(username))
		printSession(session)
		return nil
	},
}

func readPassword() (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	if env := os.Getenv("MCAUTH_PASSWORD"); env != "" {
		return env, nil
	}
	if !loginPasswordStdin {
		return "", fmt.Errorf("no password given (use --password, --password-stdin or set MCAUTH_PASSWORD)")
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prefer MCAUTH_PASSWORD or --password-stdin)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().StringVar(&loginProvider, "provider", mojang.TypeID, "Account provider for new accounts")
	loginCmd.Flags().BoolVarP(&loginVerbose, "verbose", "v", false, "Print the operation log")
}
