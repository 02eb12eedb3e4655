package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "templatize",
		Short: "Workflow sanitization service",
		Long: `Templatize turns workflow exports into portable, credential-free templates
that are safe to publish to the tool registry. It rejects any document that
carries hardcoded secrets and parameterizes credentials and saved selections.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewSanitizeCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
