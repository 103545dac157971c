package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/mcauth/internal/audit"
	"github.com/darmiel/mcauth/internal/providers"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  `Parses the configuration file and builds every configured provider without contacting any server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return logError(err, "", "configuration is invalid")
		}
		registry, err := providers.BuildRegistry(cfg.Providers, audit.NewNoopAuditor())
		if err != nil {
			return logError(err, "", "configuration is invalid")
		}
		users := 0
		if cfg.Server != nil {
			users = len(cfg.Server.Users)
		}
		logSuccess("configuration is valid (%s)",
			fmt.Sprintf("%d provider(s), %d emulator user(s)", len(registry.Types()), users))
		log.Debug().Msgf("accounts file: %q", cfg.AccountsFile)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
