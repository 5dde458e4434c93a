package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"

	"polidex/internal/apperr"
	"polidex/internal/catalog"
	"polidex/internal/livesearch"
	"polidex/internal/models"
	"polidex/internal/search"
	"polidex/internal/selection"
	"polidex/internal/view"
)

// catalogReader is the part of the catalog the commands use.
type catalogReader interface {
	Politicians(ctx context.Context, opts catalog.ListOptions) []models.Politician
	Parties(ctx context.Context, opts catalog.ListOptions) []models.Party
	LatestPoliticians(ctx context.Context, n int) []models.Politician
	PoliticianBySlug(ctx context.Context, s string) *models.Politician
	PartyBySlug(ctx context.Context, s string) *models.Party
}

// env carries command dependencies. catalog and flush may be filled in
// by the app's Before hook, after flags are parsed.
type env struct {
	catalog  catalogReader
	flush    func(ctx context.Context) (records, cards int, err error)
	out      io.Writer
	in       io.Reader
	debounce time.Duration
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(e *env) *cli.App {
	app := &cli.App{
		Name:    "polidexctl",
		Usage:   "Query politicians and parties from the command line",
		Version: Version,
		Commands: []*cli.Command{
			partiesCmd(e),
			politiciansCmd(e),
			latestCmd(e),
			getCmd(e),
			searchCmd(e),
			compareCmd(e),
			liveCmd(e),
			cacheCmd(e),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// viewFlags are shared by the listing commands. facet names the second
// category filter: status for parties, party for politicians.
func viewFlags(facet string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free-text filter"},
		&cli.StringFlag{Name: "state", Usage: "Filter by state"},
		&cli.StringFlag{Name: facet, Usage: "Filter by " + facet},
		&cli.StringFlag{Name: "sort", Usage: "Sort key"},
		&cli.StringFlag{Name: "dir", Usage: "Sort direction: asc|desc"},
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number"},
	}
}

// viewState builds view state from flags. Page is applied last because
// every other setter returns to page 1.
func viewState(c *cli.Context, facets ...string) (*view.State, error) {
	st := view.NewState(view.Criteria{})
	st.SetQuery(c.String("query"))
	for _, f := range facets {
		st.SetFacet(f, strings.TrimSpace(c.String(f)))
	}
	if c.IsSet("min-seats") {
		st.SetMinTier(c.Int("min-seats"))
	}

	var dir view.Direction
	if raw := c.String("dir"); raw != "" {
		d, ok := view.ParseDirection(raw)
		if !ok {
			return nil, apperr.Validation("--dir must be asc or desc")
		}
		dir = d
	}
	st.SetSort(strings.ToLower(c.String("sort")), dir)
	st.SetPage(c.Int("page"))
	return st, nil
}

// partiesCmd creates the parties command.
func partiesCmd(e *env) *cli.Command {
	flags := append(viewFlags("status"),
		&cli.IntFlag{Name: "min-seats", Usage: "Minimum seats (tiers: 1, 5, 10, 50)"})
	return &cli.Command{
		Name:  "parties",
		Usage: "List parties (default: most seats first)",
		Flags: flags,
		Action: func(c *cli.Context) error {
			st, err := viewState(c, "state", "status")
			if err != nil {
				return outputError(err)
			}
			eng := view.NewEngine(view.PartySchema, language.English)
			rows := e.catalog.Parties(c.Context, catalog.ListOptions{})
			return outputJSON(e.out, eng.View(rows, st.Criteria(), st.Page()))
		},
	}
}

// politiciansCmd creates the politicians command.
func politiciansCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "politicians",
		Usage: "List politicians (default: by name)",
		Flags: viewFlags("party"),
		Action: func(c *cli.Context) error {
			st, err := viewState(c, "state", "party")
			if err != nil {
				return outputError(err)
			}
			eng := view.NewEngine(view.PoliticianSchema, language.English)
			rows := e.catalog.Politicians(c.Context, catalog.ListOptions{})
			return outputJSON(e.out, eng.View(rows, st.Criteria(), st.Page()))
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "List the most recently added politicians",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 10, Usage: "Number of politicians"},
		},
		Action: func(c *cli.Context) error {
			if c.Int("n") < 1 {
				return outputError(apperr.Validation("-n must be a positive integer"))
			}
			return outputJSON(e.out, e.catalog.LatestPoliticians(c.Context, c.Int("n")))
		},
	}
}

// getCmd creates the get command.
func getCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch one politician or party by slug or record id",
		ArgsUsage: "<politician|party> <slug>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(apperr.Validation("usage: get <politician|party> <slug>"))
			}
			kind, ref := c.Args().Get(0), c.Args().Get(1)
			switch kind {
			case "politician":
				if p := e.catalog.PoliticianBySlug(c.Context, ref); p != nil {
					return outputJSON(e.out, p)
				}
				return outputError(apperr.NotFound("Politician"))
			case "party":
				if p := e.catalog.PartyBySlug(c.Context, ref); p != nil {
					return outputJSON(e.out, p)
				}
				return outputError(apperr.NotFound("Party"))
			}
			return outputError(apperr.Validation("kind must be politician or party"))
		},
	}
}

// searchCmd creates the search command.
func searchCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search politicians and parties",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			q := strings.Join(c.Args().Slice(), " ")
			return outputJSON(e.out, search.NewService(e.catalog).Search(c.Context, q))
		},
	}
}

// compareCmd creates the compare command.
func compareCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two politicians or parties side by side",
		ArgsUsage: "<slug> <slug>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "politician", Usage: "politician|party"},
		},
		Action: func(c *cli.Context) error {
			// Extra arguments evict the earliest, as in the UI.
			sel := selection.New(c.Args().Slice()...)
			if !sel.Ready() {
				return outputError(apperr.Validation("compare needs two distinct slugs"))
			}

			var items []any
			for _, ref := range sel.IDs() {
				switch c.String("kind") {
				case "politician":
					p := e.catalog.PoliticianBySlug(c.Context, ref)
					if p == nil {
						return outputError(apperr.NotFound("Politician " + ref))
					}
					items = append(items, p)
				case "party":
					p := e.catalog.PartyBySlug(c.Context, ref)
					if p == nil {
						return outputError(apperr.NotFound("Party " + ref))
					}
					items = append(items, p)
				default:
					return outputError(apperr.Validation("--kind must be politician or party"))
				}
			}
			return outputJSON(e.out, items)
		},
	}
}

// liveCmd creates the live command. Each stdin line is treated as the
// current contents of a search box.
func liveCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "live",
		Usage: "Search as you type: one query per stdin line, debounced",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "debounce", Value: livesearch.DefaultDebounce, Usage: "Quiet period before searching"},
		},
		Action: func(c *cli.Context) error {
			delay := c.Duration("debounce")
			if e.debounce > 0 && !c.IsSet("debounce") {
				delay = e.debounce
			}

			svc := search.NewService(e.catalog)
			var writeErr error
			sess := livesearch.NewSession(c.Context, delay, svc.Search, func(q string, r search.Result) {
				if err := outputJSON(e.out, r); err != nil && writeErr == nil {
					writeErr = err
				}
			})

			scanner := bufio.NewScanner(e.in)
			for scanner.Scan() {
				sess.Input(scanner.Text())
			}
			sess.Wait()
			sess.Close()

			if err := scanner.Err(); err != nil {
				return outputError(fmt.Errorf("read stdin: %w", err))
			}
			return writeErr
		},
	}
}

// cacheCmd creates the cache command group.
func cacheCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the Valkey caches",
		Subcommands: []*cli.Command{
			{
				Name:  "flush",
				Usage: "Remove cached store responses and share cards",
				Action: func(c *cli.Context) error {
					records, cards, err := e.flush(c.Context)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(e.out, map[string]int{"records": records, "cards": cards})
				},
			},
		},
	}
}

// Helper functions

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats err for the terminal and exits with status 1.
func outputError(err error) error {
	if ae := apperr.As(err); ae != nil {
		return cli.Exit(fmt.Sprintf("[%s] %s", ae.Code, ae.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
