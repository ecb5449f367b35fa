package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:          "search [query]",
	Short:        "Query every news source and print the digest",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()

		digest := rt.newSearcher().SearchNews(cmd.Context(), strings.Join(args, " "))
		if digest.Empty() {
			return errors.New("no results from any source")
		}
		fmt.Println(digest.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
