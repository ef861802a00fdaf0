// Command animelist-cli runs maintenance tasks and one-off queries against the
// configured database and catalog without starting the web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vrsandeep/animelist/internal/core"
	"github.com/vrsandeep/animelist/internal/jobs"
	"github.com/vrsandeep/animelist/internal/logging"
)

const usage = `usage: animelist-cli <command> [args]

commands:
  migrate                apply database migrations and exit
  cleanup-sessions       delete expired sessions
  search <query>         search the catalog
  recommend <email>      generate recommendations for a user
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// core.New applies migrations, so "migrate" needs nothing more.
	app, err := core.New(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer app.Close()

	args := flag.Args()[1:]
	switch flag.Arg(0) {
	case "migrate":
		fmt.Println("Database is up to date.")
	case "cleanup-sessions":
		err = jobs.RunSessionCleanup(app)
	case "search":
		err = runSearch(ctx, app, args)
	case "recommend":
		err = runRecommend(ctx, app, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logging.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Command failed")
	}
}

func runSearch(ctx context.Context, app *core.App, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search needs a query")
	}
	for _, a := range app.Catalog().Search(ctx, query) {
		fmt.Printf("%7d  %s\n", a.MalID, a.Title)
	}
	return nil
}

func runRecommend(ctx context.Context, app *core.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("recommend needs exactly one email")
	}
	user, err := app.Store().GetUserByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("find user %q: %w", args[0], err)
	}
	doc, err := app.Store().Get(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	result := app.Synthesizer().Synthesize(ctx, doc.UserProfile, doc.Watchlist)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
