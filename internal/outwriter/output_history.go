package outwriter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/internal/parquet"
	"github.com/starscope/starscope/schema"
)

// PrintHistoryResults outputs reconstructed star-history series, dispatching
// based on the output format configured.
func PrintHistoryResults(ctx context.Context, results []*schema.HistoryResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.OutputJSON:
		if err := writeHistoryJSONResults(results, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.OutputCSV:
		if err := writeHistoryCSVResults(results, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.OutputParquet:
		if err := writeHistoryParquetResults(results, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTables(ctx, results, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeHistoryJSONResults handles opening the file and calling the JSON writer.
func writeHistoryJSONResults(results []*schema.HistoryResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, results)
	}, "Wrote JSON")
}

// writeHistoryCSVResults writes every series point as one CSV row.
func writeHistoryCSVResults(results []*schema.HistoryResult, cfg *contract.Config) error {
	header := []string{"identifier", "method", "date", "stars", "gained", "timestamp_millis"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, result := range results {
				prev := 0
				for _, p := range result.Points {
					rec := []string{
						result.Identifier,
						string(result.Method),
						p.Date,
						strconv.Itoa(p.Stars),
						strconv.Itoa(p.Stars - prev),
						strconv.FormatInt(p.TimestampMillis, 10),
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
					prev = p.Stars
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeHistoryParquetResults flattens all series into one parquet file.
// Config validation guarantees OutputFile is set for parquet mode.
func writeHistoryParquetResults(results []*schema.HistoryResult, cfg *contract.Config) error {
	var points []parquet.HistoryPoint
	for _, result := range results {
		points = append(points, parquet.ConvertHistoryResult(result)...)
	}
	if err := parquet.WriteHistoryPointsParquet(points, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d points to %s\n", len(points), cfg.OutputFile)
	return nil
}

// writeHistoryTables renders one table per repository.
func writeHistoryTables(ctx context.Context, results []*schema.HistoryResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	for _, result := range results {
		if !contract.ShouldSuppressHeader(ctx) {
			header := fmt.Sprintf("%s: %d stars (%s series)", result.Identifier, result.Stars, result.Method)
			if cfg.UseEmojis {
				header = "⭐ " + header
			}
			if _, err := fmt.Fprintln(writer, header); err != nil {
				return err
			}
		}
		if err := writeHistoryTable(result, cfg, writer); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Reconstruction completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeHistoryTable renders one repository's series, downsampled to the
// configured row limit so multi-year histories stay readable.
func writeHistoryTable(result *schema.HistoryResult, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Week", "Date", "Stars", "Gained"}
	table.Header(headers)

	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	points := sampleHistoryPoints(result.Points, cfg.ResultLimit)
	var data [][]string
	prev := 0
	for _, sp := range points {
		row := []string{
			strconv.Itoa(sp.index + 1),        // Week
			sp.point.Label,                    // Date
			strconv.Itoa(sp.point.Stars),      // Stars
			formatGain(sp.point.Stars - prev), // Gained since prior row
		}
		data = append(data, row)
		prev = sp.point.Stars
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if len(points) < len(result.Points) {
		if _, err := fmt.Fprintf(writer, "Showing %d of %d weekly points\n", len(points), len(result.Points)); err != nil {
			return err
		}
	}
	return nil
}

// sampledPoint keeps the original series index through downsampling.
type sampledPoint struct {
	index int
	point schema.StarHistoryPoint
}

// sampleHistoryPoints thins a series down to at most limit rows with an
// even stride, always keeping the final point since it carries the
// authoritative star total.
func sampleHistoryPoints(points []schema.StarHistoryPoint, limit int) []sampledPoint {
	if limit <= 0 || len(points) <= limit {
		out := make([]sampledPoint, len(points))
		for i, p := range points {
			out[i] = sampledPoint{index: i, point: p}
		}
		return out
	}

	stride := (len(points) + limit - 1) / limit
	var out []sampledPoint
	for i := 0; i < len(points); i += stride {
		out = append(out, sampledPoint{index: i, point: points[i]})
	}
	last := len(points) - 1
	if out[len(out)-1].index != last {
		out = append(out, sampledPoint{index: last, point: points[last]})
	}
	return out
}

// formatGain renders a star delta with an explicit sign for positives.
func formatGain(gain int) string {
	if gain > 0 {
		return "+" + strconv.Itoa(gain)
	}
	return strconv.Itoa(gain)
}
