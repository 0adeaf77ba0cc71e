package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/japicc/pkg/archive"
	"github.com/platinummonkey/japicc/pkg/classify"
	"github.com/platinummonkey/japicc/pkg/diff"
	"github.com/platinummonkey/japicc/pkg/dump"
	"github.com/platinummonkey/japicc/pkg/errs"
	"github.com/platinummonkey/japicc/pkg/model"
	"github.com/platinummonkey/japicc/pkg/observability"
)

func newCheckCommand() *Command {
	cmd := &Command{
		Name:        "check",
		Description: "Check binary/source compatibility between two archive versions",
		Flags:       flag.NewFlagSet("check", flag.ExitOnError),
		Run:         runCheck,
	}
	cmd.Flags.String("library", "", "Library name, used in report output (required)")
	cmd.Flags.String("old", "", "Path to the old archive version (required)")
	cmd.Flags.String("new", "", "Path to the new archive version (required)")
	cmd.Flags.String("level", "binary", "Compatibility level: binary or source")
	cmd.Flags.String("format", "text", "Output format: text or json")
	return cmd
}

type checkOptions struct {
	library     string
	oldPath     string
	newPath     string
	oldVersion  string
	newVersion  string
	level       string
	quick       bool
	keepInterna bool
	skip        string
	keep        string
	format      string
	redisURL    string
	dockerImage string
}

func runCheck(args []string) error {
	flags := flag.NewFlagSet("check", flag.ExitOnError)
	opts := checkOptions{}
	flags.StringVar(&opts.library, "library", "", "Library name, used in report output (required)")
	flags.StringVar(&opts.oldPath, "old", "", "Path to the old archive version (required)")
	flags.StringVar(&opts.newPath, "new", "", "Path to the new archive version (required)")
	flags.StringVar(&opts.oldVersion, "old-version", "", "Old version label (defaults to --old)")
	flags.StringVar(&opts.newVersion, "new-version", "", "New version label (defaults to --new)")
	flags.StringVar(&opts.level, "level", "binary", "Compatibility level: binary or source")
	flags.BoolVar(&opts.quick, "quick", false, "Skip parameter-name, field-value, and added-abstract-usage analysis")
	flags.BoolVar(&opts.keepInterna, "keep-internal", false, "Disable the implicit internal-package filter")
	flags.StringVar(&opts.skip, "skip-packages", "", "Comma-separated package prefixes to skip")
	flags.StringVar(&opts.keep, "keep-packages", "", "Comma-separated package prefixes to restrict analysis to")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.StringVar(&opts.redisURL, "cache-url", "", "Optional redis:// URL for the result cache")
	flags.StringVar(&opts.dockerImage, "docker-image", "", "Run the disassembler inside this docker image instead of a local javap")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if opts.library == "" || opts.oldPath == "" || opts.newPath == "" {
		return &errs.AccessError{Path: "--library/--old/--new", Err: fmt.Errorf("all three are required")}
	}
	if opts.oldVersion == "" {
		opts.oldVersion = opts.oldPath
	}
	if opts.newVersion == "" {
		opts.newVersion = opts.newPath
	}

	level, err := parseLevel(opts.level)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := observability.NewLogger(observability.InfoLevel, os.Stderr).
		WithField("run_id", runID).
		WithField("library", opts.library)
	ctx := observability.WithRunID(context.Background(), runID)

	var cache *dump.ResultCache
	if opts.redisURL != "" {
		c, err := dump.NewResultCache(opts.redisURL, 24*time.Hour)
		if err != nil {
			log.WithError(err).Warn("result cache unavailable, continuing without it")
		} else {
			cache = c
			defer cache.Close()
			if cached, err := cache.Get(ctx, opts.library, opts.oldVersion, opts.newVersion, level.String()); err == nil && cached != nil {
				log.Info("result cache hit, skipping recomputation")
				return renderCachedSummary(*cached, opts.format)
			}
		}
	}

	result, err := runComparison(ctx, log, opts, level)
	if err != nil {
		return err
	}

	if cache != nil {
		summary := dump.CheckSummary{
			Compatible:  result.Compatible,
			HighCount:   result.High,
			MediumCount: result.Medium,
			LowCount:    result.Low,
			CheckedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := cache.Put(ctx, opts.library, opts.oldVersion, opts.newVersion, level.String(), summary); err != nil {
			log.WithError(err).Warn("failed to populate result cache")
		}
	}

	if opts.format == "json" {
		return emitJSON(result)
	}
	return emitText(result, level)
}

// comparisonResult is the engine's output for one check invocation: the
// classified problem set plus the per-severity tallies the report header
// carries per spec.md §7.
type comparisonResult struct {
	Library    string
	OldVersion string
	NewVersion string
	Compatible bool
	High       int
	Medium     int
	Low        int
	Safe       int
	Classified []classify.Classified
}

func runComparison(ctx context.Context, log *observability.Logger, opts checkOptions, level classify.Level) (*comparisonResult, error) {
	filterOpts := archive.FilterOptions{
		KeepInternals: opts.keepInterna,
		Skip:          splitCSV(opts.skip),
		Keep:          splitCSV(opts.keep),
	}

	disassembler, err := newDisassembler(opts.dockerImage)
	if err != nil {
		return nil, err
	}
	ingestor := archive.NewIngestor(archive.NewZipExtractor(nil), disassembler, filterOpts)

	v1 := model.NewBundle()
	scratchOld, err := os.MkdirTemp("", "japicc-old-*")
	if err != nil {
		return nil, &errs.AccessError{Path: scratchOld, Err: err}
	}
	defer os.RemoveAll(scratchOld)

	ctxOld, endOld := observability.StartPhase(ctx, observability.SpanIngestOld)
	if err := ingestor.Ingest(ctxOld, []string{opts.oldPath}, opts.library, scratchOld, v1); err != nil {
		endOld()
		return nil, &errs.AccessError{Path: opts.oldPath, Err: err}
	}
	endOld()

	v2 := model.NewBundle()
	scratchNew, err := os.MkdirTemp("", "japicc-new-*")
	if err != nil {
		return nil, &errs.AccessError{Path: scratchNew, Err: err}
	}
	defer os.RemoveAll(scratchNew)

	ctxNew, endNew := observability.StartPhase(ctx, observability.SpanIngestNew)
	if err := ingestor.Ingest(ctxNew, []string{opts.newPath}, opts.library, scratchNew, v2); err != nil {
		endNew()
		return nil, &errs.AccessError{Path: opts.newPath, Err: err}
	}
	endNew()

	_, endDetect := observability.StartPhase(ctx, observability.SpanDetect)
	problems := diff.NewDetector(v1, v2).Run()
	classified := classify.NewClassifier(level, opts.quick, v2).Classify(problems)
	endDetect()

	result := &comparisonResult{
		Library:    opts.library,
		OldVersion: opts.oldVersion,
		NewVersion: opts.newVersion,
		Classified: classified,
	}
	for _, c := range classified {
		switch c.Severity {
		case classify.High:
			result.High++
		case classify.Medium:
			result.Medium++
		case classify.Low:
			result.Low++
		default:
			result.Safe++
		}
	}
	result.Compatible = result.High == 0 && result.Medium == 0

	log.WithField("high", result.High).WithField("medium", result.Medium).WithField("low", result.Low).
		Info("comparison complete")

	return result, nil
}

func newDisassembler(dockerImage string) (archive.Disassembler, error) {
	if dockerImage != "" {
		d, err := archive.NewDockerDisassembler(dockerImage, logrus.StandardLogger())
		if err != nil {
			return nil, &errs.NotFound{Tool: "docker:" + dockerImage}
		}
		return d, nil
	}
	return archive.NewJavapDisassembler("javap", nil, logrus.StandardLogger()), nil
}

func parseLevel(s string) (classify.Level, error) {
	switch strings.ToLower(s) {
	case "binary", "":
		return classify.Binary, nil
	case "source":
		return classify.Source, nil
	default:
		return 0, fmt.Errorf("invalid --level %q: must be binary or source", s)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func emitText(result *comparisonResult, level classify.Level) error {
	fmt.Printf("Compatibility Check: %s %s -> %s (%s)\n", result.Library, result.OldVersion, result.NewVersion, level)
	fmt.Printf("Result: ")
	if result.Compatible {
		fmt.Printf("\033[32mCOMPATIBLE\033[0m\n\n")
	} else {
		fmt.Printf("\033[31mINCOMPATIBLE\033[0m\n\n")
	}

	fmt.Printf("Summary:\n")
	fmt.Printf("  High:   %d\n", result.High)
	fmt.Printf("  Medium: %d\n", result.Medium)
	fmt.Printf("  Low:    %d\n", result.Low)
	fmt.Printf("  Safe:   %d\n\n", result.Safe)

	for _, c := range result.Classified {
		if c.Severity == classify.Safe {
			continue
		}
		fmt.Printf("[%s] %s %s\n", c.Severity, c.Problem.Kind, c.Problem.TypeName)
		fmt.Printf("  Location: %s\n", c.Problem.Location)
		if c.Problem.OldValue != "" || c.Problem.NewValue != "" {
			fmt.Printf("  Change:   %s -> %s\n", c.Problem.OldValue, c.Problem.NewValue)
		}
		fmt.Println()
	}

	if !result.Compatible {
		return &errs.Incompatible{Library: result.Library, High: result.High, Medium: result.Medium, Low: result.Low, Safe: result.Safe}
	}
	return nil
}

type jsonProblem struct {
	Severity string `json:"severity"`
	Kind     string `json:"kind"`
	Type     string `json:"type_name"`
	Location string `json:"location"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

type jsonResult struct {
	Library    string        `json:"library"`
	OldVersion string        `json:"old_version"`
	NewVersion string        `json:"new_version"`
	Compatible bool          `json:"compatible"`
	High       int           `json:"high"`
	Medium     int           `json:"medium"`
	Low        int           `json:"low"`
	Safe       int           `json:"safe"`
	Problems   []jsonProblem `json:"problems"`
}

func emitJSON(result *comparisonResult) error {
	out := jsonResult{
		Library:    result.Library,
		OldVersion: result.OldVersion,
		NewVersion: result.NewVersion,
		Compatible: result.Compatible,
		High:       result.High,
		Medium:     result.Medium,
		Low:        result.Low,
		Safe:       result.Safe,
	}
	for _, c := range result.Classified {
		out.Problems = append(out.Problems, jsonProblem{
			Severity: c.Severity.String(),
			Kind:     string(c.Problem.Kind),
			Type:     c.Problem.TypeName,
			Location: c.Problem.Location,
			OldValue: c.Problem.OldValue,
			NewValue: c.Problem.NewValue,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if !result.Compatible {
		return &errs.Incompatible{Library: result.Library, High: result.High, Medium: result.Medium, Low: result.Low, Safe: result.Safe}
	}
	return nil
}

func renderCachedSummary(summary dump.CheckSummary, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		fmt.Printf("Result (cached at %s): ", summary.CheckedAt)
		if summary.Compatible {
			fmt.Println("\033[32mCOMPATIBLE\033[0m")
		} else {
			fmt.Println("\033[31mINCOMPATIBLE\033[0m")
		}
		fmt.Printf("  High: %d  Medium: %d  Low: %d\n", summary.HighCount, summary.MediumCount, summary.LowCount)
	}
	if !summary.Compatible {
		return &errs.Incompatible{High: summary.HighCount, Medium: summary.MediumCount, Low: summary.LowCount}
	}
	return nil
}
