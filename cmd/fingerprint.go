package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/audit"
)

var (
	fingerprintProviderType string
	fingerprintRaw          bool
)

var fingerprintCmd = &cobra.Command{
	Use:     "fingerprint [token]",
	Aliases: []string{"fp"},
	Short:   `Calculate the fingerprint of a token`,
	Long: `Calculates the fingerprint of a token the way mcauth writes it to audit logs
and shows it in 'mcauth accounts list'.

Fingerprint types:
- default:   (no fingerprint)
- yggdrasil: SHA256 -> Base64, first 12 characters`,
	Example: `  # Fingerprint an access token
  mcauth fingerprint --type yggdrasil eyJhbGciOi...

  # Fingerprint a token from stdin
  echo "eyJhbGciOi..." | mcauth fingerprint --type yggdrasil -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string

		if args[0] != "-" {
			token = args[0]
		} else {
			// read from stdin
			log.Debug().Msg("Reading token from stdin")

			data, err := os.ReadFile("/dev/stdin")
			if err != nil {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			token = strings.TrimSpace(string(data))
		}

		if token == "" {
			return fmt.Errorf("token cannot be empty")
		}

		fp := audit.CalculateFingerprint(fingerprintProviderType, token)

		if fingerprintRaw {
			fmt.Println(fp)
		} else {
			fmt.Println("Fingerprint Type:", fingerprintProviderType)
			fmt.Println("Fingerprint:     ", fp)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)

	fingerprintCmd.Flags().StringVar(&fingerprintProviderType, "type", audit.YggdrasilFingerprintType,
		fmt.Sprintf("Fingerprint type (one of: %s)", strings.Join(audit.RegisteredFingerprinterTypes(), ", ")))
	fingerprintCmd.Flags().BoolVarP(&fingerprintRaw, "raw", "r", false,
		"Output only the fingerprint value without additional text")
}
