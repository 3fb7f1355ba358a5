// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvester/internal/orchestrate"
	"github.com/pdiddy/paper-harvester/internal/source"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available sources and domain presets",
	Run: func(cmd *cobra.Command, args []string) {
		registry := source.DefaultRegistry(http.DefaultClient, types.SearchConfig{}, newLogger(cmd))

		fmt.Fprintln(os.Stdout, "Sources:")
		for _, name := range registry.Names() {
			fmt.Fprintf(os.Stdout, "  %s\n", name)
		}

		fmt.Fprintln(os.Stdout, "\nDomain presets:")
		for _, name := range orchestrate.Domains() {
			fmt.Fprintf(os.Stdout, "  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
