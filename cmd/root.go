package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/mcauth/internal/buildinfo"
	"github.com/darmiel/mcauth/internal/logging"
)

// global flags
var (
	userConfig string
	f          = NewFactory()
)

const (
	ConfigKey   = "config"
	AccountsKey = "accounts"
	ServerKey   = "server"
)

var rootCmd = &cobra.Command{
	Use:   "mcauth",
	Short: fmt.Sprintf("mcauth (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `mcauth manages Minecraft launcher accounts.
	It logs accounts in against a Yggdrasil authentication server, keeps their
	tokens and game profiles in an accounts file and can emulate the server locally.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, configErr := initConfig()
		logging.Init(nil)
		if configErr != nil { // handle error after logging is initialized
			return configErr
		}
		if configPath != "" {
			log.Debug().Msgf("using user config file: %s", configPath)
		}
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var quiet BeQuietError
		if !errors.As(err, &quiet) {
			log.Error().Err(err).Msg("execution failed")
		}
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVar(&userConfig, "user-config", "",
		"User configuration file for default values (default is $HOME/.mcauth.yaml)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(logging.LevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(logging.FormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(logging.NoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	f.bindGlobalFlags(rootCmd.PersistentFlags())
	_ = viper.BindPFlag(ConfigKey, rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(AccountsKey, rootCmd.PersistentFlags().Lookup("accounts"))
	_ = viper.BindPFlag(ServerKey, rootCmd.PersistentFlags().Lookup("server"))

	viper.SetEnvPrefix("MCAUTH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func initConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if userConfig != "" {
		viper.SetConfigFile(userConfig)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		config, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(config + "/mcauth")
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(".mcauth")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
	} else {
		return viper.ConfigFileUsed(), nil
	}

	return "", nil
}
