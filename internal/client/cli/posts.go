package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/stores"
)

// List shows the first page of the post feed and remembers the cursor so
// More can continue from it.
func (a *App) List(ctx context.Context) error {
	if !a.visit(ctx, "posts", nil) {
		return nil
	}
	a.cursor = 0
	return a.listPage(ctx)
}

// More fetches the next page of the feed started by List.
func (a *App) More(ctx context.Context) error {
	if a.cursor == 0 {
		printlnFn("No more posts; run 'list' first")
		return nil
	}
	return a.listPage(ctx)
}

func (a *App) listPage(ctx context.Context) error {
	params := stores.ListParams{Cursor: a.cursor, Limit: 10, Order: "desc"}

	rr := api.NewEnvelope()
	list, err := a.posts.List(ctx, params, rr)
	if err != nil {
		printEnvelope(rr)
		return nil
	}

	if len(list.Posts) == 0 {
		printlnFn("No posts")
		a.cursor = 0
		return nil
	}

	for _, p := range list.Posts {
		printlnFn(fmt.Sprintf("%-30s %-20s %s", p.Slug, p.User.Username, p.Title))
	}

	a.cursor = list.NextCursor
	if a.cursor > 0 {
		printlnFn("(type 'more' for the next page)")
	}
	return nil
}

// Show prompts for a slug and prints the post.
func (a *App) Show(ctx context.Context) error {
	slug, err := getSimpleText(a.reader, "Enter post slug", os.Stdout)
	if err != nil {
		return err
	}
	if !a.visit(ctx, "post", map[string]string{"slug": slug}) {
		return nil
	}

	rr := api.NewEnvelope()
	post, err := a.posts.Get(ctx, slug, rr)
	if err != nil {
		printEnvelope(rr)
		return nil
	}

	printlnFn("#", post.Title)
	printlnFn("by", post.User.Username, "in", post.Category.Name)
	printlnFn("")
	printlnFn(post.Content)
	return nil
}

// Compose prompts for a title and body and publishes a post. The server
// mints the slug and it is printed back for sharing.
func (a *App) Compose(ctx context.Context) error {
	if !a.visit(ctx, "compose", nil) {
		return nil
	}

	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Enter content", os.Stdout)
	if err != nil {
		return err
	}

	rr := api.NewEnvelope()
	post, err := a.posts.Create(ctx, stores.PostForm{Title: title, Content: content}, rr)
	if err != nil || post == nil {
		printEnvelope(rr)
		return nil
	}

	printlnFn("Published:", post.Slug)
	return nil
}

// Delete prompts for a slug and deletes the post. The server enforces
// ownership; anyone else gets the error echoed back.
func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Login first")
		return nil
	}

	slug, err := getSimpleText(a.reader, "Enter post slug", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := getYesNo(a.reader, "Delete '"+slug+"'?", os.Stdout)
	if err != nil || !ok {
		return err
	}

	rr := api.NewEnvelope()
	if err := a.posts.Delete(ctx, slug, rr); err != nil {
		printEnvelope(rr)
		return nil
	}

	printlnFn("Deleted", slug)
	return nil
}
