package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	listDescending bool
	postTitle      string
	postContent    string
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"post", "blogs"},
	Short:   "Manage posts on a running blogd server",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, err := newClient().ListPosts(cmd.Context(), listDescending)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return printResult(w, posts, func() { printPosts(w, posts) })
	},
}

var postsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		post, err := newClient().GetPost(cmd.Context(), id)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return printResult(w, post, func() { printPost(w, post) })
	},
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Long: `Create a post. Without --title on an interactive terminal, a form asks
for the title and content.`,
	Example: `  blogd posts create --title "My first blog" --content "Hello Armeria!"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("title") {
			if !isInteractive() {
				return errors.New("--title is required when stdin is not a terminal")
			}
			if err := promptPost(&postTitle, &postContent); err != nil {
				return err
			}
		}

		post, err := newClient().CreatePost(cmd.Context(), postTitle, postContent)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return printResult(w, post, func() {
			fmt.Fprintf(w, "Created post %d\n", post.ID)
		})
	},
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a post's title and content",
	Long: `Replace a post's title and content. A flag that is not given keeps the
post's current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if !flags.Changed("title") && !flags.Changed("content") {
			return errors.New("nothing to update: pass --title and/or --content")
		}

		client := newClient()
		title, content := postTitle, postContent
		if !flags.Changed("title") || !flags.Changed("content") {
			current, err := client.GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !flags.Changed("title") {
				title = current.Title
			}
			if !flags.Changed("content") {
				content = current.Content
			}
		}

		post, err := client.UpdatePost(cmd.Context(), id, title, content)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return printResult(w, post, func() {
			fmt.Fprintf(w, "Updated post %d\n", post.ID)
		})
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a post",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}
		if err := newClient().DeletePost(cmd.Context(), id); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		return printResult(w, map[string]any{"deleted": true, "id": id}, func() {
			fmt.Fprintf(w, "Deleted post %d\n", id)
		})
	},
}

func newClient() *Client {
	return NewClient(serverURL)
}

func parsePostID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q: must be an integer", s)
	}
	return id, nil
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptPost asks for a title and content with an interactive form.
func promptPost(title, content *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("My first blog").
				Value(title).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Content").
				Placeholder("Hello Armeria!").
				Value(content),
		),
	)
	return form.Run()
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsListCmd, postsGetCmd, postsCreateCmd, postsUpdateCmd, postsDeleteCmd)

	postsListCmd.Flags().BoolVar(&listDescending, "descending", true, "Sort posts by id")

	for _, c := range []*cobra.Command{postsCreateCmd, postsUpdateCmd} {
		c.Flags().StringVarP(&postTitle, "title", "t", "", "Post title")
		c.Flags().StringVar(&postContent, "content", "", "Post content")
	}
}
