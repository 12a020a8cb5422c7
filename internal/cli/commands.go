package cli

import (
	"fmt"

	"github.com/pfrederiksen/notion-meetings/internal/config"
	"github.com/pfrederiksen/notion-meetings/internal/digest"
	"github.com/pfrederiksen/notion-meetings/internal/filter"
	"github.com/pfrederiksen/notion-meetings/internal/formatter"
	"github.com/pfrederiksen/notion-meetings/internal/logger"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
	"github.com/pfrederiksen/notion-meetings/internal/storage"
	"github.com/spf13/cobra"
)

var flagForce bool

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <digest.md>",
		Short: "Split an aggregated digest into one file per meeting",
		Long: `Reads a digest written with --digest (or by hand in the same layout) and writes
each dated meeting to <output>/<YYYY-MM-DD>/. Meetings without a recognizable
date are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output folder (overrides output.folder)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Result format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Parse without writing files")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	meetings, err := digest.ReadFile(args[0])
	if err != nil {
		return err
	}
	logger.Info("Digest parsed", logger.Fields{"source": args[0], "meetings": len(meetings)})

	result := &RunResult{Source: args[0], DryRun: flagDryRun}

	var store *storage.Storage
	if !flagDryRun {
		// Converted meetings always land in per-date folders.
		if store, err = storage.New(cfg.Output.Folder, true); err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}
	fm := formatter.New(cfg.Output)

	for _, m := range meetings {
		date, ok := digestDate(m)
		if !ok {
			logger.Warn("Skipping meeting without date", logger.Fields{"title": m.Title, "date_text": m.DateText})
			result.Skipped++
			continue
		}
		m.DisplayDate = date.Display()
		m.DateKey = date.Key()
		result.Meetings = append(result.Meetings, m)

		if store == nil {
			continue
		}
		data, err := fm.Meeting(m, date)
		if err != nil {
			return fmt.Errorf("formatting %q: %w", m.Title, err)
		}
		path, err := store.Write(date.Key(), fm.Filename(m.Category, m.Subcategory, date), data)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, path)
	}

	return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
}

// digestDate reads the 時間 field of a digest meeting. It holds the display form, or
// YYYY-MM-DD for meetings dated from their title.
func digestDate(m *meeting.Meeting) (meeting.Date, bool) {
	if key, ok := meeting.KeyFromDisplay(m.DateText); ok {
		return meeting.ParseKey(key)
	}
	return meeting.ParseKey(m.DateText)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Example().WriteFile(path, flagForce); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <text>...",
		Short: "Show how date text resolves",
		Long: `Prints the display and comparison forms of each argument, e.g.

  notion-meetings normalize "Last Tuesday @ 10am" "Feb 4, 2026" --date 2026-02-12

Text without a recognizable date is checked for a numeric date as found in titles.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runNormalize,
	}
	cmd.Flags().StringVarP(&flagDate, "date", "d", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Result format: text or json")
	return cmd
}

func runNormalize(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	ref, err := filter.ParseReferenceDate(flagDate, now())
	if err != nil {
		return err
	}

	n := meeting.NewNormalizer(ref)
	rows := make([]NormalizedDate, 0, len(args))
	for _, text := range args {
		row := NormalizedDate{Text: text}
		row.Display, row.Key = n.Resolve(text)
		if row.Key != "" {
			row.Source = "date"
		} else if key, ok := meeting.ExtractFromText(text); ok {
			row.Display, row.Key, row.Source = key, key, "title"
		}
		rows = append(rows, row)
	}

	return writeNormalized(cmd.OutOrStdout(), rows, format)
}
