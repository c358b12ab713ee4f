package outwriter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

// PrintComparisonResult outputs a two-repository comparison, dispatching
// based on the output format configured.
func PrintComparisonResult(ctx context.Context, comparison schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.OutputJSON:
		if err := writeComparisonJSONResult(comparison, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.OutputCSV:
		if err := writeComparisonCSVResult(comparison, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(ctx, comparison, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeComparisonJSONResult handles opening the file and calling the JSON writer.
func writeComparisonJSONResult(comparison schema.ComparisonResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, comparison)
	}, "Wrote JSON")
}

// writeComparisonCSVResult writes one row per comparison dimension plus
// the overall verdict.
func writeComparisonCSVResult(comparison schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{"dimension", "first", "second", "outcome"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, d := range comparison.Dimensions {
				rec := []string{
					d.Name,
					fmtFloat(d.First),
					fmtFloat(d.Second),
					string(d.Outcome),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return csvWriter.Write([]string{"overall", comparison.FirstIdentifier, comparison.SecondIdentifier, string(comparison.Overall)})
		})
	}, "Wrote CSV")
}

// writeComparisonTable generates and writes the human-readable table.
func writeComparisonTable(ctx context.Context, comparison schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	maxWidth := getMaxIdentifierWidth(cfg)
	first := truncateIdentifier(comparison.FirstIdentifier, maxWidth)
	second := truncateIdentifier(comparison.SecondIdentifier, maxWidth)

	if !contract.ShouldSuppressHeader(ctx) {
		header := fmt.Sprintf("%s vs %s", first, second)
		if cfg.UseEmojis {
			header = "⚖️  " + header
		}
		if _, err := fmt.Fprintln(writer, header); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Dimension", first, second, "Winner"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range comparison.Dimensions {
		data = append(data, []string{
			d.Name,
			fmtFloat(d.First),
			fmtFloat(d.Second),
			outcomeName(d.Outcome, first, second),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	verdict := formatVerdict(comparison.Overall, first, second)
	if cfg.UseEmojis {
		verdict = "🏆 " + verdict
	}
	if _, err := fmt.Fprintln(writer, verdict); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// outcomeName resolves an outcome to the identifier it favors.
func outcomeName(outcome schema.ComparisonOutcome, first, second string) string {
	switch outcome {
	case schema.OutcomeFirst:
		return first
	case schema.OutcomeSecond:
		return second
	default:
		return "tie"
	}
}

// formatVerdict states the overall winner, or the tie.
func formatVerdict(outcome schema.ComparisonOutcome, first, second string) string {
	switch outcome {
	case schema.OutcomeFirst:
		return fmt.Sprintf("Overall: %s is growing faster", first)
	case schema.OutcomeSecond:
		return fmt.Sprintf("Overall: %s is growing faster", second)
	default:
		return fmt.Sprintf("Overall: %s and %s are neck and neck", first, second)
	}
}
