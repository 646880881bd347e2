// Copyright © 2026 The octls authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // registers the default logging backend
	"github.com/tliron/kutil/util"
)

var log = commonlog.GetLogger("octls.cmd")

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "octls",
	Short: "octls: go to definition for Octave source files",
	Long: `octls indexes Octave source files and answers "go to definition"
queries, either as a Language Server Protocol server or from the command line.

Getting started:
  octls lsp                    Serve LSP over stdin/stdout
  octls index script.m         Print the occurrences and definitions of a file
  octls index ./...            Index every .m file below the current directory
  octls query script.m         Explore the index of a file interactively

Configuration is read from $HOME/.octls.yaml and OCTLS_* environment
variables. Logs go to stderr unless --log-file is given, since stdout carries
the protocol in stdio mode.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit(1)
	}
	exit(0)
}

// exit flushes buffered logs before terminating the process.
func exit(code int) {
	util.Exit(code)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.octls.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeatable).")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr.")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit(1)
		}

		// Search config in home directory with name ".octls" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".octls")
	}

	viper.SetEnvPrefix("OCTLS")
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()
	configureLogging()
	if readErr == nil {
		log.Infof("using config file %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		log.Warningf("reading config file %s: %v", cfgFile, readErr)
	}
	colorFlag = viper.GetString("color")
}

// configureLogging applies the verbose and log-file settings.  Logs never go
// to stdout.
func configureLogging() {
	var path *string
	if p := viper.GetString("log-file"); p != "" {
		path = &p
	}
	commonlog.Configure(viper.GetInt("verbose"), path)
}
