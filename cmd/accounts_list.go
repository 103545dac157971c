package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/engine"
)

var accountsListWhere string

var accountsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the stored accounts",
	Example: `  # Only accounts that are logged in
  mcauth accounts list --where 'account.LoggedIn'

  # Accounts owning a profile
  mcauth accounts list --where '"Notch" in account.Profiles'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter *engine.Filter
		if accountsListWhere != "" {
			var err error
			if filter, err = engine.Compile(accountsListWhere); err != nil {
				return err
			}
		}

		ws, err := f.Open()
		if err != nil {
			return err
		}
		defer ws.Close()

		if ws.Accounts.Len() == 0 {
			log.Info().Msgf("No accounts stored in %s", ws.Store.Path())
			return nil
		}

		t := table.NewWriter()
		t.AppendHeader(table.Row{"", "Login", "Provider", "Status", "Profile", "Profiles", "Token Expires", "Fingerprint"})

		active := ws.Accounts.Active()
		shown := 0
		for _, acc := range ws.Accounts.Accounts() {
			isActive := active != nil && active.LoginUsername() == acc.LoginUsername()
			if filter != nil && !filter.Match(engine.NewAccountView(acc, isActive)) {
				continue
			}
			shown++

			marker := ""
			if isActive {
				marker = color.GreenString("*")
			}

			status := color.RedString(acc.Status().String())
			if acc.Status() == core.StatusVerified {
				status = color.GreenString(acc.Status().String())
			}

			profile := faint("(none)")
			if p, ok := acc.CurrentProfile(); ok {
				profile = bold(p.Name())
			}

			t.AppendRow(table.Row{
				marker,
				bold(truncate(acc.LoginUsername(), 40)),
				acc.Type().Text(),
				status,
				profile,
				acc.Len(),
				tokenExpiry(acc.AccessToken()),
				faint(audit.CalculateFingerprint(audit.YggdrasilFingerprintType, acc.AccessToken())),
			})
		}

		applyTableFormat(t)
		t.Render()
		log.Debug().Msgf("Showing %d of %d account(s)", shown, ws.Accounts.Len())
		return nil
	},
}

// tokenExpiry reads the expiry of a JWT access token without verifying it.
// Opaque tokens have no readable expiry.
func tokenExpiry(accessToken string) string {
	if accessToken == "" {
		return "-"
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil || claims.ExpiresAt == nil {
		return faint("unknown")
	}
	left := time.Until(claims.ExpiresAt.Time).Round(time.Minute)
	if left <= 0 {
		return color.RedString("expired")
	}
	return fmt.Sprintf("%s (%s)", claims.ExpiresAt.Format("2006-01-02 15:04"), faint("in "+left.String()))
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)

	accountsListCmd.Flags().StringVarP(&accountsListWhere, "where", "w", "", "Only show accounts matching this expression")
}
