// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of paper-harvester",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("paper-harvester %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
