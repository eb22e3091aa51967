// Package cli implements the devlog-go command line
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/devlog-go/internal/application/startup"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// Execute builds the root command and runs it
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command. Without a subcommand it serves the site.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "devlog-go",
		Short:         "DevLog: a server-rendered blog backed by Contentful",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startup.Initialize()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startup.Initialize()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "devlog-go "+Version)
		},
	}
}
