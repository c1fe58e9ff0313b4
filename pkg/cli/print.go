package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/getmockd/blogd/pkg/blog"
	"github.com/getmockd/blogd/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// When --json is active only the JSON encoding of data is written to w.
// textFn is called only in text mode.
func printResult(w io.Writer, data any, textFn func()) error {
	if jsonOutput {
		return output.JSON(w, data)
	}
	textFn()
	return nil
}

// printPost writes a post as key/value lines.
func printPost(w io.Writer, p blog.Post) {
	tw := output.Table(w)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	fmt.Fprintf(tw, "Content:\t%s\n", p.Content)
	fmt.Fprintf(tw, "Created:\t%s\n", formatMillis(p.CreatedAt))
	fmt.Fprintf(tw, "Modified:\t%s\n", formatMillis(p.ModifiedAt))
	_ = tw.Flush()
}

// printPosts writes posts as an aligned table.
func printPosts(w io.Writer, posts []blog.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts")
		return
	}
	tw := output.Table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tMODIFIED")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, truncate(p.Title, 40), formatMillis(p.ModifiedAt))
	}
	_ = tw.Flush()
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
