package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caal-ai/templatize/internal/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Printf("templatize %s (%s, %s)\n", info.Version, info.GoVersion, info.Platform)
			if info.GitCommit != "" {
				fmt.Printf("commit: %s\n", info.GitCommit)
			}
		},
	}
}
