package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pageza/bitebox/frontend/internal/forms"
	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/service"
	"github.com/pageza/bitebox/frontend/internal/types"
	"github.com/pageza/bitebox/frontend/internal/views"
)

type command func(ctx context.Context, args []string) error

func (a *app) commands() map[string]command {
	return map[string]command{
		"login":     a.login,
		"logout":    a.logout,
		"whoami":    a.whoami,
		"recipes":   a.recipes,
		"show":      a.show,
		"comment":   a.comment,
		"mealtypes": a.mealTypes,
		"mine":      a.mine,
		"post":      a.post,
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form := forms.LoginForm{Email: *email, Password: *password}
	if err := form.Validate(); err != nil {
		return usageError{msg: forms.MsgCredentialsMissing}
	}

	token, err := a.anon.Auth.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	user, err := a.sess.Login(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Logged in as %s\n", user.DisplayName())
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func (a *app) whoami(_ context.Context, _ []string) error {
	user := a.sess.User()
	if user == nil {
		fmt.Fprintln(a.stdout, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.stdout, "%s (id %s)\n", user.DisplayName(), user.ID)
	fmt.Fprintf(a.stdout, "avatar: %s\n", user.AvatarURL())
	return nil
}

func (a *app) recipes(ctx context.Context, args []string) error {
	fs := a.flags("recipes")
	query := fs.String("q", "", "search recipe names")
	mealType := fs.Int64("meal-type", 0, "only this meal type id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := a.svc.Recipes.List(ctx)
	if err != nil {
		return err
	}
	printRecipes(a.stdout, forms.FilterRecipes(list, *query, *mealType))
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := a.flags("show")
	id := fs.Int64("id", 0, "recipe id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError{msg: "-id is required"}
	}

	detail, err := a.svc.Recipes.Get(ctx, *id)
	if err != nil {
		return err
	}
	comments, err := a.svc.Comments.List(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\nby %s, rating %s\n\n%s\n\n", detail.Name, detail.Creator(), views.FormatRating(detail.Rating), detail.Description)
	for i, step := range detail.Steps {
		fmt.Fprintf(a.stdout, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(a.stdout, "\nComments (%d)\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(a.stdout, "- %s [%s]: %s\n", c.UserName, views.FormatRating(c.Rating), c.Body)
	}
	return nil
}

func (a *app) comment(ctx context.Context, args []string) error {
	fs := a.flags("comment")
	id := fs.Int64("id", 0, "recipe id")
	rating := fs.Float64("rating", 0, "rating from 1 to 5 in half steps")
	text := fs.String("text", "", "comment text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return usageError{msg: "-id is required"}
	}
	if err := forms.ValidateComment(*text, *rating); err != nil {
		return usageError{msg: err.Error()}
	}

	if _, err := a.svc.Comments.Post(ctx, *id, *text, *rating); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Comment posted")
	return nil
}

func (a *app) mealTypes(ctx context.Context, _ []string) error {
	list, err := a.svc.MealTypes.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, mt := range list {
		fmt.Fprintf(w, "%d\t%s\n", mt.ID, mt.Name)
	}
	return w.Flush()
}

func (a *app) mine(ctx context.Context, _ []string) error {
	list, err := a.svc.Recipes.ListOwn(ctx)
	if err != nil {
		return err
	}
	printRecipes(a.stdout, list)
	return nil
}

func (a *app) post(ctx context.Context, args []string) error {
	fs := a.flags("post")
	draft := forms.RecipeDraft{}
	fs.StringVar(&draft.Name, "name", "", "recipe name")
	fs.StringVar(&draft.Description, "description", "", "short description")
	steps := fs.String("steps", "", `steps, one per line or separated by "\n"`)
	fs.StringVar(&draft.MealTypeID, "meal-type", "", "meal type id")
	fs.StringVar(&draft.GuestName, "guest", "", "post as a guest under this name")
	image := fs.String("image", "", "path to a PNG or JPEG image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	draft.Steps = strings.ReplaceAll(*steps, `\n`, "\n")

	if *image != "" {
		upload, err := readImage(*image)
		if err != nil {
			return err
		}
		draft.Image = upload
	}

	user := a.sess.User()
	if strings.TrimSpace(draft.GuestName) != "" {
		// -guest posts anonymously even with a session
		user = nil
	}
	if err := draft.Validate(user == nil); err != nil {
		return usageError{msg: err.Error()}
	}

	id, err := a.svc.Recipes.Submit(ctx, draft.Submission(), service.AuthorFor(user, draft.GuestName))
	if err != nil {
		return err
	}
	if id > 0 {
		fmt.Fprintf(a.stdout, "Recipe posted with id %d\n", id)
	} else {
		fmt.Fprintln(a.stdout, "Recipe posted")
	}
	return nil
}

func readImage(path string) (*types.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, forms.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	upload, err := forms.ValidateImageData(filepath.Base(path), data)
	if err != nil {
		return nil, usageError{msg: err.Error()}
	}
	return upload, nil
}

func printRecipes(out io.Writer, recipes []models.Recipe) {
	if len(recipes) == 0 {
		fmt.Fprintln(out, "No recipes found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEAL TYPE\tRATING")
	for _, r := range recipes {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", r.ID, r.Name, r.MealTypeID, views.FormatRating(r.Rating))
	}
	_ = w.Flush()
}
