// Command bitebox is a terminal client for the BiteBox recipe API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/service"
	"github.com/pageza/bitebox/frontend/internal/session"
)

const defaultServer = "http://localhost:8080/api"

const msgSessionExpired = "session expired, please log in again"

const usage = `usage: bitebox [-server URL] [-profile NAME] <command> [flags]

commands:
  login      -email -password      log in and remember the token
  logout                           forget the token
  whoami                           show the signed-in user
  recipes    [-q] [-meal-type]     list recipes
  show       -id                   show a recipe with its comments
  comment    -id -rating -text     comment on a recipe
  mealtypes                        list meal types
  mine                             list your own recipes
  post       -name -description -steps -meal-type [-guest] [-image]
                                   post a recipe
`

// app carries what every command needs.
type app struct {
	sess   *session.Session
	svc    *service.Services
	anon   *service.Services
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses the global flags, opens the profile's session and dispatches
// the command. It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bitebox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	server := fs.String("server", envOr("BITEBOX_API_URL", defaultServer), "backend API root")
	profile := fs.String("profile", envOr("BITEBOX_PROFILE", "default"), "session profile name")
	dir := fs.String("config-dir", "", "directory holding session tokens")
	verbose := fs.Bool("v", false, "log requests")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := logger.Nop()
	if *verbose {
		log = logger.New(logger.DebugLevel)
	}

	if *dir == "" {
		d, err := session.DefaultFileStoreDir()
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		*dir = d
	}
	store, err := session.NewFileStore(*dir)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	sess := session.New(*profile, store, session.WithLogger(log))
	sess.Load(ctx)

	api := client.New(*server, client.Options{Tokens: sess, Logger: log})
	api.SetUnauthorizedHandler(sess.OnInvalidated(func() {
		fmt.Fprintln(stderr, msgSessionExpired)
	}))

	a := &app{
		sess:   sess,
		svc:    service.New(api),
		anon:   service.New(client.New(*server, client.Options{Logger: log})),
		stdout: stdout,
		stderr: stderr,
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := a.commands()[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	if err := cmd(ctx, rest); err != nil {
		var usageErr usageError
		switch {
		case errors.As(err, &usageErr):
			fmt.Fprintln(stderr, "error:", usageErr.msg)
			return 2
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, client.ErrUnauthorized):
			// the unauthorized handler already told the user
			return 1
		case errors.Is(err, service.ErrNotAuthenticated):
			fmt.Fprintln(stderr, "error: not logged in, run `bitebox login` first")
			return 1
		default:
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
