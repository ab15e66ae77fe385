package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coffeepress/coffeepress/internal/blog"
	"github.com/coffeepress/coffeepress/internal/client"
	"github.com/coffeepress/coffeepress/internal/content"
	"github.com/coffeepress/coffeepress/internal/slideshow"

	log "github.com/sirupsen/logrus"
)

const cliUsage = `usage: blogcli [-addr <service-url>] <command> [args]

commands:
  list              browse posts, newest first (j/k to move, enter to read, q to quit)
  read <id>         print a single post, rendered
  compose           write a new post from stdin
  delete <id>       delete a post
  theme [light|dark]  show or set the reader theme
`

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the publishing service")
	imageQuery := flag.String("image", "", "for compose: attach an image found by this query")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, cliUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetLevel(log.ErrorLevel)

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	c := client.New(*addr)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var err error
	switch flag.Arg(0) {
	case "list":
		err = runList(ctx, c)
	case "read":
		err = runRead(ctx, c, flag.Arg(1))
	case "compose":
		err = runCompose(ctx, c, *imageQuery)
	case "delete":
		err = runDelete(ctx, c, flag.Arg(1))
	case "theme":
		err = runTheme(ctx, c, flag.Arg(1))
	default:
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// runList drives the same slideshow cursor the web post list uses, just
// mapped onto terminal lines instead of stacked cards.
func runList(ctx context.Context, c *client.Client) error {
	posts := c.List(ctx)
	if len(posts) == 0 {
		fmt.Println("no posts")
		return nil
	}

	nav := slideshow.NewNavigator(len(posts))
	scanner := bufio.NewScanner(os.Stdin)

	for {
		printList(posts, nav)
		fmt.Print("> ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		switch input := strings.TrimSpace(scanner.Text()); input {
		case "j":
			nav.Down()
		case "k":
			nav.Up()
		case "q":
			return nil
		case "":
			return printPost(ctx, c, posts[nav.Cursor()].ID)
		default:
			if index, err := strconv.Atoi(input); err == nil {
				nav.Select(index)
			}
		}
	}
}

// printList shows the visible slice of the slideshow: the focused post in
// full, near neighbours dimmed to their titles, the rest hidden.
func printList(posts []*blog.PostListItem, nav *slideshow.Navigator) {
	fmt.Println()
	for i, post := range posts {
		placement := nav.Placement(i)
		if placement.Hidden {
			continue
		}
		if placement.Interactive {
			fmt.Printf("> [%d] %s\n      %s\n", i, post.Title, post.Preview)
		} else {
			fmt.Printf("  [%d] %s\n", i, post.Title)
		}
	}
}

func runRead(ctx context.Context, c *client.Client, id string) error {
	if id == "" {
		return errors.New("post id missing")
	}
	return printPost(ctx, c, id)
}

func printPost(ctx context.Context, c *client.Client, id string) error {
	post, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("# %s\n", post.Title)
	fmt.Printf("  created: %s, updated: %s\n\n", post.CreatedAt.Format(time.DateOnly), post.UpdatedAt.Format(time.DateOnly))
	fmt.Println(content.Render(post.Content))
	return nil
}

func runCompose(ctx context.Context, c *client.Client, imageQuery string) error {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("title: ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	title := strings.TrimSpace(scanner.Text())

	fmt.Println("content (finish with a single '.' line):")
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	doc := content.Parse(strings.Join(lines, "\n"))

	if imageQuery != "" {
		imageURL, err := c.SearchImage(ctx, imageQuery)
		if err != nil {
			return fmt.Errorf("find image to attach: %w", err)
		}
		segments := doc.Segments()
		if len(segments) > 0 {
			doc.InsertImageAfter(segments[len(segments)-1].ID, imageURL)
		}
	}

	post, err := c.Create(ctx, client.PostRequest{
		Title:   title,
		Content: doc.String(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("created post %s\n", post.ID)
	return nil
}

func runDelete(ctx context.Context, c *client.Client, id string) error {
	if id == "" {
		return errors.New("post id missing")
	}
	if err := c.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

func runTheme(ctx context.Context, c *client.Client, theme string) error {
	if theme == "" {
		current, err := c.GetTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Println(current)
		return nil
	}

	if err := c.SetTheme(ctx, theme); err != nil {
		return err
	}
	fmt.Printf("theme set to %s\n", theme)
	return nil
}
