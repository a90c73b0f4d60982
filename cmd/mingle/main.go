// Command mingle is a terminal client for the Mingle API. It exercises the
// same SDK surface the embedding applications use: the session store, the
// domain services, and the optimistic feed interactions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mingle/client"
	"mingle/config"
	"mingle/feed"
	"mingle/models"
	"mingle/services"
	"mingle/session"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the config falls back to defaults.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fatalf("load configuration: %v", err)
	}

	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var store client.TokenStore = client.NewMemoryTokenStore()
	if cfg.TokenFile != "" {
		store = client.NewFileTokenStore(cfg.TokenFile)
	}
	api := client.New(cfg.BaseURL, client.WithTokenStore(store))
	svcs := services.New(api)
	sess := session.NewStore(api)

	ctx := context.Background()
	if err := run(ctx, args, svcs, sess); err != nil {
		fatalf("%s", client.ServerMessage(err, err.Error()))
	}
}

func run(ctx context.Context, args []string, svcs *services.Services, sess *session.Store) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, rest, sess)
	case "register":
		return cmdRegister(ctx, rest, sess)
	case "logout":
		sess.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return cmdWhoami(ctx, sess)
	case "feed":
		return cmdFeed(ctx, rest, svcs, sess)
	case "post":
		return cmdPost(ctx, rest, svcs)
	case "like":
		return cmdLike(ctx, rest, svcs, sess)
	case "comment":
		return cmdComment(ctx, rest, svcs)
	case "comments":
		return cmdComments(ctx, rest, svcs)
	case "friends":
		return cmdFriends(ctx, svcs)
	case "suggestions":
		return cmdSuggestions(ctx, svcs)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdLogin(ctx context.Context, args []string, sess *session.Store) error {
	if len(args) != 2 {
		return errors.New("usage: mingle login <email> <password>")
	}
	user, err := sess.Login(ctx, services.Credentials{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", user.DisplayName, user.Email)
	return nil
}

func cmdRegister(ctx context.Context, args []string, sess *session.Store) error {
	if len(args) != 3 {
		return errors.New("usage: mingle register <display-name> <email> <password>")
	}
	user, err := sess.Register(ctx, services.RegisterInput{
		DisplayName: args[0],
		Email:       args[1],
		Password:    args[2],
	})
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("Account created. Log in to continue.")
		return nil
	}
	fmt.Printf("Welcome, %s!\n", user.DisplayName)
	return nil
}

func cmdWhoami(ctx context.Context, sess *session.Store) error {
	sess.Initialize(ctx)
	user := sess.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> (id %d)\n", user.DisplayName, user.Email, user.ID)
	return nil
}

func cmdFeed(ctx context.Context, args []string, svcs *services.Services, sess *session.Store) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum posts to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess.Initialize(ctx)
	posts, err := svcs.Posts.Feed(ctx, *limit)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("The feed is empty.")
		return nil
	}
	for i := range posts {
		printPost(&posts[i])
	}
	return nil
}

func cmdPost(ctx context.Context, args []string, svcs *services.Services) error {
	if len(args) == 0 {
		return errors.New("usage: mingle post <text...>")
	}
	post, err := svcs.Posts.Create(ctx, services.CreatePostInput{
		TextContent: strings.Join(args, " "),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Posted #%d\n", post.ID)
	return nil
}

// cmdLike drives the optimistic toggle the way an embedding UI would: the
// card flips immediately and reverts if the request fails.
func cmdLike(ctx context.Context, args []string, svcs *services.Services, sess *session.Store) error {
	if len(args) != 1 {
		return errors.New("usage: mingle like <post-id>")
	}
	postID, err := parseUint(args[0])
	if err != nil {
		return err
	}

	sess.Initialize(ctx)
	user := sess.CurrentUser()
	if user == nil {
		return fmt.Errorf("login required: %w", client.ErrUnauthorized)
	}

	posts, err := svcs.Posts.Feed(ctx, 100)
	if err != nil {
		return err
	}
	for i := range posts {
		if posts[i].ID == postID {
			card := feed.NewCard(svcs.Interactions, &posts[i], user.ID)
			toggleErr := card.ToggleLike(ctx)
			state := "unliked"
			if card.Liked() {
				state = "liked"
			}
			fmt.Printf("Post #%d %s (%d likes)\n", postID, state, card.Likes())
			if toggleErr != nil {
				// The card already reverted; the command still succeeds, the
				// user just gets told their action did not stick.
				fmt.Fprintf(os.Stderr, "mingle: like failed: %s\n",
					client.ServerMessage(toggleErr, "request failed"))
			}
			return nil
		}
	}
	return fmt.Errorf("post %d is not in your feed: %w", postID, client.ErrNotFound)
}

func cmdComment(ctx context.Context, args []string, svcs *services.Services) error {
	if len(args) < 2 {
		return errors.New("usage: mingle comment <post-id> <text...>")
	}
	postID, err := parseUint(args[0])
	if err != nil {
		return err
	}
	comment, err := svcs.Interactions.CreateComment(ctx,
		models.PostTarget(postID), strings.Join(args[1:], " "), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Comment #%d added to post #%d\n", comment.ID, postID)
	return nil
}

func cmdComments(ctx context.Context, args []string, svcs *services.Services) error {
	if len(args) != 1 {
		return errors.New("usage: mingle comments <post-id>")
	}
	postID, err := parseUint(args[0])
	if err != nil {
		return err
	}
	comments, err := svcs.Interactions.Comments(ctx, models.PostTarget(postID))
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Println("No comments yet.")
		return nil
	}
	for _, c := range comments {
		indent := ""
		if c.ParentCommentID != nil {
			indent = "    "
		}
		fmt.Printf("%s[%d] %s: %s\n", indent, c.ID, c.Author.DisplayName, c.TextContent)
	}
	return nil
}

func cmdFriends(ctx context.Context, svcs *services.Services) error {
	friends, err := svcs.Friends.List(ctx)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		fmt.Println("No friends yet.")
		return nil
	}
	for _, f := range friends {
		fmt.Printf("[%d] %s <%s>\n", f.ID, f.DisplayName, f.Email)
	}
	return nil
}

func cmdSuggestions(ctx context.Context, svcs *services.Services) error {
	users, err := svcs.Friends.Suggestions(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No suggestions right now.")
		return nil
	}
	for _, u := range users {
		fmt.Printf("[%d] %s\n", u.ID, u.DisplayName)
	}
	return nil
}

func printPost(p *models.Post) {
	liked := " "
	if p.IsLikedByMe {
		liked = "*"
	}
	fmt.Printf("#%-4d %s %s — %d likes, %d comments\n",
		p.ID, liked, p.Author.DisplayName, p.Stats.Likes, p.Stats.Comments)
	for _, line := range strings.Split(p.TextContent, "\n") {
		fmt.Printf("      %s\n", line)
	}
}

func parseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(v), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: mingle <command> [arguments]

Commands:
  register <name> <email> <password>   create an account
  login <email> <password>             log in
  logout                               log out
  whoami                               show the current session
  feed [-limit n]                      show the feed
  post <text...>                       publish a post
  like <post-id>                       toggle a like
  comment <post-id> <text...>          comment on a post
  comments <post-id>                   list a post's comments
  friends                              list friends
  suggestions                          list friend suggestions
`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "mingle: "+format+"\n", args...)
	os.Exit(1)
}
