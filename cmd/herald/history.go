package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "Show recent posts from the history database",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()

		posts := rt.newPosts(cmd.Context())
		if posts == nil {
			return errors.New("post history requires DATABASE_URL")
		}
		records, err := posts.ListRecent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No posts recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tSTATUS\tTOPIC\tPOST")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.Status,
				rec.Topic,
				oneLinePreview(rec.Content))
		}
		return w.Flush()
	},
}

// oneLinePreview collapses the post to a single short line for the table.
func oneLinePreview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of posts to show")
}
