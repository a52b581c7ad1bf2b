package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"commute/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "commute",
	Short: "Serves the commuting-to-work dashboard",
	Long: `commute loads two tables describing how people commute to work in each U.S. state
and serves a dashboard with a commute method breakdown per state and a map of the
share of commuters using a given method.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	cobra.OnInitialize(initConfig)
	models.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.commute.yaml)")
	flags.String("addr", models.DefaultAddr, "Address the dashboard listens on")
	flags.String("stacked-url", models.DefaultStackedURL, "Location of the stacked table (http(s), file or s3)")
	flags.String("wide-url", models.DefaultWideURL, "Location of the wide table (http(s), file or s3)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("aws-region", "us-east-1", "AWS region for s3 locations")
	flags.Duration("fetch-timeout", 30*time.Second, "Timeout for downloading a table")
	flags.Bool("show-progress", false, "Show a progress bar while downloading")

	bindFlags(flags, map[string]string{
		"addr":          "addr",
		"stacked_url":   "stacked-url",
		"wide_url":      "wide-url",
		"log_level":     "log-level",
		"aws_region":    "aws-region",
		"fetch_timeout": "fetch-timeout",
		"show_progress": "show-progress",
	})

	rootCmd.AddCommand(serveCmd, exportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".commute")
	}

	viper.SetEnvPrefix("commute")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags maps config keys to their flags so viper sees flag overrides
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
