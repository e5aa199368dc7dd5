// Package cmd is for command line interactions with HipSTR.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tyjo/HipSTR/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "hipstr",
	Short:   "Filter and group STR-spanning reads from BAM files for genotyping",
	Version: "1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initSettings)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file with filter thresholds")
}

func initSettings() {
	config.SetDefaults()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logrus.Fatalf("failed to read config file %v: %v", cfgFile, err)
		}
	}
}
