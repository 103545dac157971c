package cmd

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/core"
	"github.com/darmiel/mcauth/internal/providers"
)

var debugDumpSecrets bool

var debugDumpCmd = &cobra.Command{
	Use:   "dump [USERNAME]",
	Short: "Dump the stored document of an account",
	Long: `Prints the document an account is saved as. Token values are replaced by
their fingerprint unless --secrets is given.`,
	Args: cobra.MaximumNArgs(1),
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

		doc := providers.Encode(acc)
		if !debugDumpSecrets {
			redactTokens(doc)
		}
		log.Info().Msg(spew.Sdump(doc))
		return nil
	},
}

// redactTokens replaces secret token values with their fingerprint.
func redactTokens(doc core.Document) {
	tokens, ok, err := doc.Object("tokens")
	if err != nil || !ok {
		return
	}
	redacted := make(map[string]any, len(tokens))
	for name, value := range tokens {
		str, isStr := value.(string)
		if isStr && name != "login_username" && str != "" {
			value = "fp:" + audit.CalculateFingerprint(audit.YggdrasilFingerprintType, str)
		}
		redacted[name] = value
	}
	doc["tokens"] = redacted
}

func init() {
	debugCmd.AddCommand(debugDumpCmd)

	debugDumpCmd.Flags().BoolVar(&debugDumpSecrets, "secrets", false, "Show token values")
}
