package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "martdesk",
		Short: "Admin console backend for marketplace operators",
		Long: `MartDesk is the backend for a marketplace admin console: it keeps the
admin-user directory, checks logins, and routes each admin to the dashboard
for their role. All state lives in a local SQLite file; there is no external
database to configure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./martdesk.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the slot store (default: ~/.martdesk)")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newSessionCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("martdesk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.martdesk")
	}

	viper.SetEnvPrefix("MARTDESK")
	viper.AutomaticEnv()
	viper.ReadInConfig() // Ignore error - config file is optional
}
