package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shadow",
	Short: "Run a background sampler next to a constraint search",
	Long: `shadow replays a constraint problem into a primary search and, concurrently, into a
background worker that explores the same problem by random sampling until the search is done.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(runCmd, generateCmd, benchCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}
