package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var postFile string

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish the latest composed post to LinkedIn",
	Long: `Post publishes the most recent composed run through a browser session,
using the saved session cookies when they are still valid. Pass --file
to publish arbitrary content instead of the latest run.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()

		runner, err := rt.newRunner(cmd.Context(), false)
		if err != nil {
			return err
		}
		if postFile != "" {
			raw, err := os.ReadFile(postFile)
			if err != nil {
				return fmt.Errorf("read post file: %w", err)
			}
			return runner.PublishContent(cmd.Context(), rt.cfg.Topic, "", string(raw))
		}
		return runner.PublishLatest(cmd.Context(), rt.cfg.Topic)
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().StringVar(&postFile, "file", "", "publish this file instead of the latest run")
}
