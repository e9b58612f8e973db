package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hostmap",
	Short: "Live topology map of the services running on one host",
	Long: `hostmap collects the Docker containers, LXD applications and host
services of a single machine from an inventory backend and local sources,
and draws them as a tree rooted at the host.

Run it once with 'hostmap generate', keep a diagram current with
'hostmap watch', or serve the live map over HTTP with 'hostmap serve'.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	log.SetReportTimestamp(true)

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: hostmap.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.FileName)
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("HOSTMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Error("Error reading config", "err", err)
			os.Exit(1)
		}
	}
}
