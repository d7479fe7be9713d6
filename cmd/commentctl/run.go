package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/commenttree"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
)

var errUsage = errors.New("wrong number of arguments")

// run loads the first page, applies one command and prints the resulting tree
func run(ctx context.Context, store *commenttree.Store, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	if err := store.Refresh(ctx); err != nil {
		return err
	}

	switch cmd {
	case "list":
		if len(rest) != 0 {
			return fmt.Errorf("list: %w", errUsage)
		}
	case "more":
		if len(rest) != 0 {
			return fmt.Errorf("more: %w", errUsage)
		}
		loaded, err := store.LoadMore(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "loaded %d more\n", len(loaded))
	case "add":
		if len(rest) == 0 {
			return fmt.Errorf("add: %w", errUsage)
		}
		c, err := store.AddComment(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "added %s\n", c.ID)
	case "reply":
		if len(rest) < 2 {
			return fmt.Errorf("reply: %w", errUsage)
		}
		if !store.CanReply(rest[0]) {
			return fmt.Errorf("reply: comment %s does not accept replies", rest[0])
		}
		c, err := store.ReplyToComment(ctx, rest[0], strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "replied %s\n", c.ID)
	case "like":
		if len(rest) != 1 {
			return fmt.Errorf("like: %w", errUsage)
		}
		res, err := store.ToggleLike(ctx, rest[0])
		if err != nil {
			return err
		}
		verb := "unliked"
		if res.IsLiked {
			verb = "liked"
		}
		fmt.Fprintf(w, "%s %s (%d)\n", verb, rest[0], res.LikesCount)
	case "edit":
		if len(rest) < 2 {
			return fmt.Errorf("edit: %w", errUsage)
		}
		if _, err := store.EditComment(ctx, rest[0], strings.Join(rest[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(w, "edited %s\n", rest[0])
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("delete: %w", errUsage)
		}
		if err := store.DeleteComment(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(w, "deleted %s\n", rest[0])
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	printTree(w, store.Comments(), 0)
	if store.HasNextPage() {
		fmt.Fprintln(w, "(more comments available)")
	}
	return nil
}

func printTree(w io.Writer, comments []*domain.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range comments {
		marker := " "
		if c.IsLiked {
			marker = "*"
		}
		line := fmt.Sprintf("%s%s [%s] %s: %s", indent, marker, c.ID, c.Author.Username, c.Content)
		if c.IsDeleted {
			line = fmt.Sprintf("%s%s [%s] %s", indent, marker, c.ID, c.Content)
		}
		if c.LikesCount > 0 {
			line += fmt.Sprintf(" (%d likes)", c.LikesCount)
		}
		if c.IsEdited && !c.IsDeleted {
			line += " (edited)"
		}
		if unloaded := c.RepliesCount - len(c.Replies); unloaded > 0 {
			line += fmt.Sprintf(" (+%d replies)", unloaded)
		}
		fmt.Fprintln(w, line)
		printTree(w, c.Replies, depth+1)
	}
}
