package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "herald",
	Short: "LinkedIn tech news agent",
	Long: `Herald finds what's trending in tech, writes a LinkedIn post about it
through a staged LLM pipeline, and publishes the result with a real
browser session. Run the stages one at a time from the CLI, or let
service mode do the whole thing on a schedule.`,
}
