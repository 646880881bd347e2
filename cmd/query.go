// Copyright © 2026 The octls authors

package cmd

import (
	"github.com/octls/octls/query"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var queryCmd = &cobra.Command{
	Use:   "query FILE",
	Short: "Explore the index of an Octave file interactively",
	Long: `Analyze an Octave file and answer questions about its index.

Commands:
  LINE:COL    symbol at a 0-based position and its definition
  def NAME    definition of NAME
  refs NAME   occurrences of NAME
  syms        every defined name
  help        list the commands
  quit        leave (also exit or Ctrl-D)

Positions use the same coordinates as a language client: 0-based lines and
UTF-16 columns. History is kept in ~/.octls_history unless the
query.history config key names another file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []query.Option{query.WithStdout(cmd.OutOrStdout())}
		if viper.IsSet("query.history") {
			opts = append(opts, query.WithHistoryFile(viper.GetString("query.history")))
		}
		if p := viper.GetString("query.prompt"); p != "" {
			opts = append(opts, query.WithPrompt(p))
		}
		return query.Run(args[0], opts...)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
