package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Zaba505/qsharp-bridge-go/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "teleport",
	Short: "Quantum teleportation experiments on a Q# evaluator",
	Long: `Teleport runs the QuantumEntanglement Q# operations for qubit records,
either once from the command line or behind a JSON HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./teleport.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level, overrides log.level")
	rootCmd.PersistentFlags().String("evaluator", "", "evaluator kind: process or http, overrides evaluator.kind")
	rootCmd.PersistentFlags().String("definitions", "", "Q# definitions file, overrides definitions.path")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("evaluator.kind", rootCmd.PersistentFlags().Lookup("evaluator"))
	_ = viper.BindPFlag("definitions.path", rootCmd.PersistentFlags().Lookup("definitions"))
}

func initConfig() {
	// A missing .env is fine
	_ = godotenv.Load()

	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("teleport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/teleport")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TELEPORT")
	// e.g. TELEPORT_EVALUATOR_URL for evaluator.url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}
