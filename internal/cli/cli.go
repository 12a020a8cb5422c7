package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/notion-meetings/internal/calendar"
	"github.com/pfrederiksen/notion-meetings/internal/config"
	"github.com/pfrederiksen/notion-meetings/internal/filter"
	"github.com/pfrederiksen/notion-meetings/internal/formatter"
	"github.com/pfrederiksen/notion-meetings/internal/logger"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
	"github.com/pfrederiksen/notion-meetings/internal/scraper"
	"github.com/pfrederiksen/notion-meetings/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig   string
	flagDate     string
	flagCategory string
	flagOutput   string
	flagFormat   string
	flagSort     string
	flagVerbose  bool
	flagQuiet    bool
	flagDigest   bool
	flagDryRun   bool
)

// now is replaced in tests
var now = time.Now

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notion-meetings",
		Short: "Collect the day's meeting notes from Notion",
		Long: `Crawls the configured Notion meeting pages, keeps the meetings held on the
reference date (today by default) and writes one markdown file per meeting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runScrape,
	}

	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
	addRunFlags(cmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Crawl and write the reference date's meetings (same as the root command)",
		Args:  cobra.NoArgs,
		RunE:  runScrape,
	}
	addRunFlags(runCmd)

	cmd.AddCommand(runCmd, newConvertCmd(), newConfigCmd(), newNormalizeCmd())
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagDate, "date", "d", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&flagCategory, "category", "", "Only crawl this category (exact or fuzzy name)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output folder (overrides output.folder)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Result format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort meetings by: category, title or date (default crawl order)")
	cmd.Flags().BoolVar(&flagDigest, "digest", false, "Also write a digest of every crawled meeting")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Crawl and filter without writing files")
}

// loadConfig reads the config file and applies the flags shared by all commands
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagOutput != "" {
		cfg.Output.Folder = flagOutput
	}

	logger.SetDefault(logger.New(logLevel(cfg, flagVerbose, flagQuiet), os.Stderr))

	return cfg, nil
}

// logLevel lets --verbose and --quiet override the file. options.verbose: false only
// lowers the level when logging.level is unset.
func logLevel(cfg *config.Config, verbose, quiet bool) logger.Level {
	configured := strings.TrimSpace(cfg.Logging.Level)
	if configured == "" && !cfg.Options.Verbose {
		configured = string(logger.LevelWarn)
	}
	return logger.LevelFor(configured, verbose, quiet)
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dateInput := cfg.Options.DateReference
	if flagDate != "" {
		dateInput = flagDate
	}
	ref, err := filter.ParseReferenceDate(dateInput, now())
	if err != nil {
		return err
	}

	f := filter.New(ref)
	categories := cfg.EnabledCategories()
	if flagCategory != "" {
		name, ok := filter.MatchCategory(cfg.CategoryNames(), flagCategory)
		if !ok {
			return fmt.Errorf("no category matches %q (have: %s)", flagCategory, strings.Join(cfg.CategoryNames(), ", "))
		}
		f.Categories = []string{name}
		categories = selectCategories(categories, name)
	}
	if len(categories) == 0 {
		return fmt.Errorf("no enabled categories configured")
	}

	logger.Info("Starting run", logger.Fields{
		"filter":     f.String(),
		"categories": len(categories),
		"dry_run":    flagDryRun,
	})

	metrics := logger.NewMetrics()
	sc := scraper.New(cfg.Crawl, scraper.Options{
		ExtractSummary: cfg.Options.ExtractSummary,
		ExtractNotes:   cfg.Options.ExtractNotes,
	}, logger.Default(), metrics)

	result := &RunResult{
		ReferenceDate: ref.Key(),
		Filter:        f.String(),
		DryRun:        flagDryRun,
	}

	var crawled []*meeting.Meeting
	for _, category := range categories {
		found, err := sc.CrawlCategory(cmd.Context(), category)
		if err != nil {
			if cmd.Context().Err() != nil {
				return fmt.Errorf("run interrupted: %w", cmd.Context().Err())
			}
			logger.Error("Category failed", logger.Fields{"category": category.Name}, err)
			result.Categories = append(result.Categories, CategoryResult{Name: category.Name, Error: err.Error()})
			continue
		}

		matched := f.Apply(found)
		result.Categories = append(result.Categories, CategoryResult{
			Name:    category.Name,
			Scraped: len(found),
			Matched: len(matched),
		})
		crawled = append(crawled, found...)
		result.Meetings = append(result.Meetings, matched...)
	}
	metrics.AddCounter("meetings.matched", int64(len(result.Meetings)))
	sortMeetings(result.Meetings, order)

	if !flagDryRun {
		if err := writeRunFiles(cfg, ref, crawled, result, metrics); err != nil {
			return err
		}
	}

	snapshot := metrics.Snapshot()
	result.Metrics = &snapshot
	logger.Info("Run complete", snapshot.Fields())

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// writeRunFiles writes the matched meetings, and the digest and calendar when enabled
func writeRunFiles(cfg *config.Config, ref meeting.Date, crawled []*meeting.Meeting, result *RunResult, metrics *logger.Metrics) error {
	store, err := storage.New(cfg.Output.Folder, cfg.Output.PerDateFolders)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	fm := formatter.New(cfg.Output)

	for _, m := range result.Meetings {
		data, err := fm.Meeting(m, ref)
		if err != nil {
			return fmt.Errorf("formatting %q: %w", m.Title, err)
		}
		path, err := store.Write(ref.Key(), fm.Filename(m.Category, m.Subcategory, ref), data)
		if err != nil {
			return err
		}
		logger.Debug("Saved meeting", logger.Fields{"path": path, "title": m.Title})
		result.Files = append(result.Files, path)
	}

	if flagDigest && len(crawled) > 0 {
		path, err := store.Write(ref.Key(), fmt.Sprintf("meetings_%s.md", ref.Key()), fm.Digest(crawled, ref))
		if err != nil {
			return err
		}
		result.Digest = path
	}

	if cfg.Output.ICS {
		if ics := calendar.Generate(result.Meetings, "Meetings "+ref.Key(), now()); ics != "" {
			path, err := store.Write(ref.Key(), fmt.Sprintf("meetings-%s.ics", ref.Key()), []byte(ics))
			if err != nil {
				return err
			}
			result.Calendar = path
		}
	}

	metrics.AddCounter("files.written", int64(store.Written()))
	return nil
}

func selectCategories(categories []config.Category, name string) []config.Category {
	for _, c := range categories {
		if c.Name == name {
			return []config.Category{c}
		}
	}
	return nil
}

// Execute runs the CLI and exits with ExitError on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
