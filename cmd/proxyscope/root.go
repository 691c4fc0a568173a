package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for proxyscope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxyscope",
		Short: "Risk charts for proxy intelligence datasets",
		Long: `proxyscope loads a CSV export of proxy/IP intelligence records, drops rows
without a usable fraud score, and renders four charts: the fraud-score
distribution, the top high-risk countries, the top high-risk ISPs, and a
geographic map of high-risk proxies.

Charts are written as image files by 'render' or served on a local
dashboard by 'serve'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
