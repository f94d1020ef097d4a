// Command coursedeck runs one catalog query from the command line, without the
// interactive UI. It is handy for checking a shared link or a server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"

	"coursedeck/internal/catalog"
	"coursedeck/internal/config"
	"coursedeck/internal/location"
	"coursedeck/internal/logging"
	"coursedeck/internal/summary"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	location   string
	apiURL     string
	page       int
	jsonOut    bool
	verbose    bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("coursedeck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to the configuration file")
	fs.StringVar(&opts.location, "location", "", "Location to query (a link or query string)")
	fs.StringVar(&opts.apiURL, "api", "", "Catalog API base URL, overrides the config")
	fs.IntVar(&opts.page, "page", 1, "Page to fetch")
	fs.BoolVar(&opts.jsonOut, "json", false, "Print the raw page as JSON")
	fs.BoolVar(&opts.verbose, "v", false, "Log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.location == "" && fs.NArg() > 0 {
		opts.location = fs.Arg(0)
	}
	if opts.page < 1 {
		return opts, fmt.Errorf("page must be at least 1, got %d", opts.page)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	svc := config.NewConfigService()
	if opts.configPath != "" {
		svc = config.NewConfigServiceAt(opts.configPath)
	}
	cfg, err := svc.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.ApplyEnv(cfg)
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := logging.Console(stderr, level)

	loc := location.New(opts.location, log, location.WithAnomalyObserver(func(a location.Anomaly) {
		log.Warn().Str("key", a.Key).Str("value", a.Value).Msg("ignoring malformed location value")
	}))
	filter := loc.Current()

	client := catalog.NewHTTPClient(cfg.API.BaseURL,
		catalog.WithTimeout(cfg.API.Timeout()),
		catalog.WithRetryMax(cfg.API.RetryMax),
		catalog.WithLogger(log),
	)
	params := catalog.ParamsFromFilter(filter, opts.page, cfg.API.PageSize)
	log.Debug().Str("params", params.Encode()).Msg("fetching courses")

	page, err := client.FetchCourses(ctx, params)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	return printPage(stdout, summary.Summarize(filter), page, opts.page, cfg.API.PageSize)
}

func printPage(w io.Writer, chips []summary.Entry, page catalog.Page, current, pageSize int) error {
	labels := make([]string, 0, len(chips))
	for _, chip := range chips {
		labels = append(labels, chip.Label)
	}
	filters := "none"
	if len(labels) > 0 {
		filters = strings.Join(labels, ", ")
	}

	pages := (page.TotalCourses + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	header := lipgloss.NewStyle().Bold(true)
	if _, err := fmt.Fprintf(w, "%s %s\n%s %d courses, page %d/%d\n",
		header.Render("Filters:"), filters,
		header.Render("Results:"), page.TotalCourses, current, pages); err != nil {
		return err
	}
	if len(page.Courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses match the current filters.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Title", "Instructor", "Level", "Rating", "Price")
	for _, c := range page.Courses {
		price := "Free"
		if !c.IsFree() {
			price = fmt.Sprintf("$%.2f", c.Price)
		}
		t.Row(c.Title, c.Instructor, summary.LevelLabel(c.Level), fmt.Sprintf("%.1f", c.Rating), price)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
