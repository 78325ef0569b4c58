package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/femtree"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of femtree",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "femtree version %s\n", strings.TrimSpace(femtree.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
