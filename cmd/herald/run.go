package main

import (
	"github.com/spf13/cobra"
)

var runTopic string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compose a post from today's news and publish it",
	Long: `Run performs a complete cycle: research the topic across every news
source, write the post with the staged LLM pipeline, then publish it to
LinkedIn through a browser session.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()

		runner, err := rt.newRunner(cmd.Context(), true)
		if err != nil {
			return err
		}
		return runner.RunFull(cmd.Context(), rt.topicOr(runTopic))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runTopic, "topic", "", "topic to research (defaults to HERALD_TOPIC)")
}
