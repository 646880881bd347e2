// Copyright © 2026 The octls authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/octls/octls/lsp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LSPCommand creates the "lsp" cobra command.  Options are passed through
// to the server.
func LSPCommand(opts ...lsp.Option) *cobra.Command {
	var (
		stdio bool
		port  int
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the octls Language Server Protocol server",
		Long: `Start an LSP server for Octave source files.

The server keeps an index of every open document and answers
textDocument/definition requests from it. Documents are synchronized in
full on every change.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for LSP clients on TCP port N

Examples:
  octls lsp                           Start with stdio transport
  octls lsp --stdio                   Same as above (explicit)
  octls lsp --port 7998               Start with TCP on port 7998

Exit codes:
  0  The client sent shutdown and then exit
  1  The client sent exit without shutdown, or the connection failed`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverOpts := append([]lsp.Option{lsp.WithDebug(debug || viper.GetBool("lsp.debug"))}, opts...)
			if err := runLSP(ctx, lsp.New(serverOpts...), stdio, port); err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
				stop()
				exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().BoolVar(&debug, "debug", false,
		"Log every JSON-RPC message at debug level")

	return cmd
}

// runLSP serves until the client exits or ctx is cancelled.  Cancellation
// is a clean stop.
func runLSP(ctx context.Context, srv *lsp.Server, stdio bool, port int) error {
	var err error
	if !stdio && port > 0 {
		addr := fmt.Sprintf("localhost:%d", port)
		log.Infof("listening on %s", addr)
		err = srv.RunTCP(ctx, addr)
	} else {
		log.Info("serving on stdio")
		err = srv.RunStdio(ctx)
	}
	if errors.Is(err, context.Canceled) {
		log.Info("stopped")
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
