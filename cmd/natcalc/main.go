package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/natzcalc/filing-calculator/internal/calculation"
	"github.com/natzcalc/filing-calculator/internal/config"
	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/internal/output"
	"github.com/natzcalc/filing-calculator/internal/store"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "natcalc",
		Short: "Naturalization filing eligibility calculator",
		Long: `natcalc works out when a permanent resident can file for naturalization.

It derives the filing dates from the permanent resident, marriage and spouse
citizenship dates, selects the controlling track, checks physical presence
against the trips taken abroad, and reports the earliest filing date.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(datesCmd())
	rootCmd.AddCommand(tripsCmd())
	rootCmd.AddCommand(recalcCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(exampleCmd())
	return rootCmd
}

func newLogger(w io.Writer, verbose bool) calculation.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return calculation.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// parseTodayFlag returns the absent date for an empty flag and rejects text
// that does not parse.
func parseTodayFlag(cmd *cobra.Command) (dateutil.Date, error) {
	raw, _ := cmd.Flags().GetString("today")
	return parseDateFlag("today", raw)
}

func parseDateFlag(name, raw string) (dateutil.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return dateutil.Date{}, nil
	}
	d := dateutil.ParseDate(raw)
	if d.IsZero() {
		return d, fmt.Errorf("invalid --%s date %q (use MM/DD/YYYY)", name, raw)
	}
	return d, nil
}

func loadCaseFile(cmd *cobra.Command, logger calculation.Logger) (*domain.CaseFile, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil, fmt.Errorf("--config flag is required")
	}
	parser := config.NewInputParser()
	cf, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range parser.Warnings(cf) {
		logger.Warnf("%s", w)
	}
	return cf, nil
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate every applicant in a case file",
		Long: `Evaluate every applicant in a case file and print a report.

Example:
  natcalc evaluate --config case.yaml
  natcalc evaluate --config case.yaml --today 01/01/2024 --format json --output report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")
			verbose, _ := cmd.Flags().GetBool("verbose")

			logger := newLogger(cmd.ErrOrStderr(), verbose)
			today, err := parseTodayFlag(cmd)
			if err != nil {
				return err
			}
			cf, err := loadCaseFile(cmd, logger)
			if err != nil {
				return err
			}
			if !today.IsZero() {
				cf.Today = today
			}

			engine := calculation.NewEligibilityEngine()
			engine.Debug = verbose
			engine.SetLogger(logger)

			reports := engine.EvaluateAll(cf, dateutil.Date{})
			output.ApplyMessages(reports, output.DefaultMessageTemplates().Merge(cf.Messages))

			if outPath == "" {
				return output.WriteReport(cmd.OutOrStdout(), reports, format)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()
			if err := output.WriteReport(f, reports, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringP("config", "c", "", "Case file (YAML)")
	cmd.Flags().String("today", "", "Evaluate as of this date (MM/DD/YYYY)")
	cmd.Flags().StringP("format", "f", "console", "Output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolP("verbose", "v", false, "Log the decision path")
	return cmd
}

func datesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Show derived dates and the controlling factor for one set of dates",
		Long: `Show the derived filing dates and classification for a single applicant.

The marital status defaults to married when a marriage or spouse citizenship
date is given.

Example:
  natcalc dates --lpr 01/01/2021 --marriage 01/01/2022 --spouse-citizenship 01/01/2015 --today 01/01/2024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src domain.SourceDates
			var err error
			flags := []struct {
				name string
				dst  *dateutil.Date
			}{
				{"lpr", &src.LPRDate},
				{"marriage", &src.MarriageDate},
				{"spouse-citizenship", &src.SpouseCitizenshipDate},
				{"today", &src.Today},
			}
			for _, f := range flags {
				raw, _ := cmd.Flags().GetString(f.name)
				if *f.dst, err = parseDateFlag(f.name, raw); err != nil {
					return err
				}
			}
			if src.Today.IsZero() {
				src.Today = calculation.Today()
			}

			marital, err := maritalFlag(cmd, src)
			if err != nil {
				return err
			}

			derived := calculation.ComputeDerivedDates(src)
			result := calculation.ClassifyControllingFactor(derived, marital)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "As of\t%s\n", src.Today)
			fmt.Fprintf(w, "Marital status\t%s\n", marital)
			for _, row := range []struct {
				label string
				d     dateutil.Date
			}{
				{"LPR2", derived.LPR2}, {"LPR3", derived.LPR3}, {"LPR4", derived.LPR4}, {"LPRC", derived.LPRC},
				{"LPR36", derived.LPR36}, {"LPRC6", derived.LPRC6},
				{"DM2", derived.DM2}, {"DMC", derived.DMC}, {"DMC6", derived.DMC6},
				{"SC2", derived.SC2}, {"SCC", derived.SCC}, {"SCC6", derived.SCC6},
			} {
				fmt.Fprintf(w, "%s\t%s\n", row.label, row.d)
			}
			fmt.Fprintf(w, "Controlling factor\t%s\n", result.ControllingFactor)
			fmt.Fprintf(w, "Controlling date\t%s\n", result.ControllingDate)
			fmt.Fprintf(w, "Branch\t%s\n", result.ControllingDesc)
			fmt.Fprintf(w, "Status\t%s\n", result.Status)
			return w.Flush()
		},
	}
	cmd.Flags().String("lpr", "", "Permanent resident date (MM/DD/YYYY)")
	cmd.Flags().String("marriage", "", "Marriage date")
	cmd.Flags().String("spouse-citizenship", "", "Date the spouse became a citizen")
	cmd.Flags().String("marital-status", "", "Married or NotMarried (yes/no accepted)")
	cmd.Flags().String("today", "", "Evaluate as of this date")
	return cmd
}

func maritalFlag(cmd *cobra.Command, src domain.SourceDates) (domain.MaritalStatus, error) {
	raw, _ := cmd.Flags().GetString("marital-status")
	if strings.TrimSpace(raw) == "" {
		if src.HasMarriageDate() || src.HasSpouseCitizenshipDate() {
			return domain.MaritalStatusMarried, nil
		}
		return domain.MaritalStatusNotMarried, nil
	}
	return domain.ParseMaritalStatus(raw)
}

func tripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Check physical presence and trips abroad for a case file",
		Long: `Check physical presence, long trips and overlapping trips for each applicant.

The lookback follows the controlling factor (3 years on the marriage tracks,
5 otherwise) unless --lookback is given.

Example:
  natcalc trips --config case.yaml --applicant traveller-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			only, _ := cmd.Flags().GetString("applicant")
			lookback, _ := cmd.Flags().GetInt("lookback")

			logger := newLogger(cmd.ErrOrStderr(), false)
			cf, err := loadCaseFile(cmd, logger)
			if err != nil {
				return err
			}
			today, err := parseTodayFlag(cmd)
			if err != nil {
				return err
			}
			if !today.IsZero() {
				cf.Today = today
			}

			engine := calculation.NewEligibilityEngine()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			found := false
			for _, report := range engine.EvaluateAll(cf, dateutil.Date{}) {
				if only != "" && report.Applicant.ID != only {
					continue
				}
				found = true
				p := report.Presence
				if lookback > 0 {
					p = calculation.EvaluateIntervals(report.Applicant.Trips, lookback, report.Applicant.Dates.Today)
				}
				writePresence(w, report.Applicant.ID, p)
			}
			if only != "" && !found {
				return fmt.Errorf("applicant %q not found", only)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringP("config", "c", "", "Case file (YAML)")
	cmd.Flags().String("applicant", "", "Only show this applicant ID")
	cmd.Flags().Int("lookback", 0, "Lookback years (3 or 5); default follows the controlling factor")
	cmd.Flags().String("today", "", "Evaluate as of this date")
	return cmd
}

func writePresence(w io.Writer, id string, p domain.PresenceAssessment) {
	fmt.Fprintf(w, "%s\n", id)
	fmt.Fprintf(w, "  Lookback\t%d years (%s - %s)\n", p.LookbackYears, p.LookbackStart, p.LookbackEnd)
	fmt.Fprintf(w, "  Days abroad\t%d\n", p.DaysAbroad)
	fmt.Fprintf(w, "  Days present\t%d of %d (%s)\n", p.DaysPresent, p.RequiredPresenceDays, output.FormatRatio(p.PresenceRatio))
	if p.MeetsRequirement {
		fmt.Fprintf(w, "  Requirement\tmet\n")
	} else {
		fmt.Fprintf(w, "  Requirement\tshort by %d days, earliest %s\n", p.DaysShort, p.PresenceDelayDate)
	}
	for _, t := range p.LongTrips {
		fmt.Fprintf(w, "  Long trip\t%s %s - %s (%d days)\n", t.Label, t.Start, t.End, t.Days())
	}
	if !p.DelayedFilingDate.IsZero() {
		fmt.Fprintf(w, "  Delayed filing\t%s\n", p.DelayedFilingDate)
	}
	for _, pair := range p.Overlaps {
		fmt.Fprintf(w, "  Overlap\t%s / %s\n", pair.First.Label, pair.Second.Label)
	}
}

func recalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Re-evaluate stored records whose Today is out of date",
		Long: `Re-evaluate every record in a record file whose stored Today differs from
today, writing the new outcome back to the file.

Example:
  natcalc recalc --store records.yaml
  natcalc recalc --store records.yaml --today 10/03/2024 --workers 8 --force
  natcalc recalc --store records.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("store")
			workers, _ := cmd.Flags().GetInt("workers")
			force, _ := cmd.Flags().GetBool("force")
			verbose, _ := cmd.Flags().GetBool("verbose")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if path == "" {
				return fmt.Errorf("--store flag is required")
			}
			today, err := parseTodayFlag(cmd)
			if err != nil {
				return err
			}

			engine := calculation.NewEligibilityEngine()
			engine.SetLogger(newLogger(cmd.ErrOrStderr(), verbose))

			ctx := context.Background()
			var target store.RecordStore = store.NewFileStore(path)
			if dryRun {
				mem := store.NewMemoryStore()
				if err := store.Copy(ctx, mem, target); err != nil {
					return err
				}
				target = mem
			}

			templates := output.DefaultMessageTemplates()
			r := calculation.NewRecalculator(target)
			r.Engine = engine
			r.Workers = workers
			r.Force = force
			r.Render = func(rep *domain.EligibilityReport) string { return output.RenderMessage(rep, templates) }

			summary, err := r.Run(ctx, today)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprint(out, "[dry run] ")
			}
			fmt.Fprintf(out, "Recalculated %d of %d records as of %s (%d already current)\n",
				summary.Recalculated, summary.Total, summary.Today, summary.Skipped)
			for _, k := range summary.Changed {
				fmt.Fprintf(out, "  changed: %s\n", k)
			}
			return nil
		},
	}
	cmd.Flags().String("store", "", "Record file (YAML)")
	cmd.Flags().String("today", "", "Recalculate as of this date")
	cmd.Flags().Int("workers", 4, "Records processed concurrently")
	cmd.Flags().Bool("force", false, "Recalculate records that are already current")
	cmd.Flags().BoolP("verbose", "v", false, "Log each evaluation")
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing the record file")
	return cmd
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record to a record file",
		Long: `Add a record holding the source dates of one applicant to a record file.
The record is evaluated on the next recalc run.

Example:
  natcalc add --store records.yaml --lpr 01/01/2021 --marriage 01/01/2022 --spouse-citizenship 01/01/2015`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("store")
			key, _ := cmd.Flags().GetString("key")
			if path == "" {
				return fmt.Errorf("--store flag is required")
			}

			var src domain.SourceDates
			var err error
			for _, f := range []struct {
				name string
				dst  *dateutil.Date
			}{
				{"lpr", &src.LPRDate},
				{"marriage", &src.MarriageDate},
				{"spouse-citizenship", &src.SpouseCitizenshipDate},
			} {
				raw, _ := cmd.Flags().GetString(f.name)
				if *f.dst, err = parseDateFlag(f.name, raw); err != nil {
					return err
				}
			}
			if src.LPRDate.IsZero() {
				return fmt.Errorf("--lpr flag is required")
			}
			marital, err := maritalFlag(cmd, src)
			if err != nil {
				return err
			}

			if key == "" {
				key = store.NewKey()
			}
			fm := store.DefaultFieldMap()
			fields := store.Fields{}
			fields.Set(fm.LPRDate, src.LPRDate.String())
			fields.Set(fm.MaritalStatus, string(marital))
			if src.HasMarriageDate() {
				fields.Set(fm.MarriageDate, src.MarriageDate.String())
			}
			if src.HasSpouseCitizenshipDate() {
				fields.Set(fm.SpouseCitizenshipDate, src.SpouseCitizenshipDate.String())
			}

			if err := store.NewFileStore(path).Put(context.Background(), key, fields); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added record %s\n", key)
			return nil
		},
	}
	cmd.Flags().String("store", "", "Record file (YAML)")
	cmd.Flags().String("key", "", "Record key (a new UUID when empty)")
	cmd.Flags().String("lpr", "", "Permanent resident date (MM/DD/YYYY)")
	cmd.Flags().String("marriage", "", "Marriage date")
	cmd.Flags().String("spouse-citizenship", "", "Date the spouse became a citizen")
	cmd.Flags().String("marital-status", "", "Married or NotMarried (yes/no accepted)")
	return cmd
}

func exampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example case file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("output")
			cf := config.NewInputParser().CreateExampleCaseFile()
			if err := output.SaveCaseFile(cf, path); err != nil {
				return fmt.Errorf("failed to write example case file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example case file written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "example_case.yaml", "Destination file")
	return cmd
}
