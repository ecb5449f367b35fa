package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var composeTopic string

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a post and save it without publishing",
	Long: `Compose runs the research and writing stages and saves the result under
the posts directory. Review the run output, then publish it with
"herald post". Prints the run directory on success.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()

		runner, err := rt.newRunner(cmd.Context(), true)
		if err != nil {
			return err
		}
		_, runDir, err := runner.ComposeOnly(cmd.Context(), rt.topicOr(composeTopic))
		if err != nil {
			return err
		}
		fmt.Println(runDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().StringVar(&composeTopic, "topic", "", "topic to research (defaults to HERALD_TOPIC)")
}
