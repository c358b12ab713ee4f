package outwriter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

// PrintMetricsResult outputs derived growth metrics for one repository,
// dispatching based on the output format configured.
func PrintMetricsResult(ctx context.Context, metrics schema.RepoMetrics, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.OutputJSON:
		if err := writeMetricsJSONResult(metrics, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.OutputCSV:
		if err := writeMetricsCSVResult(metrics, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(ctx, metrics, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeMetricsJSONResult handles opening the file and calling the JSON writer.
func writeMetricsJSONResult(metrics schema.RepoMetrics, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, metrics)
	}, "Wrote JSON")
}

// writeMetricsCSVResult writes the metrics as metric,value rows so the
// output stays grep-friendly regardless of which fields are populated.
func writeMetricsCSVResult(metrics schema.RepoMetrics, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{"metric", "value"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			rows := [][]string{
				{"identifier", metrics.Identifier},
				{"stars", strconv.Itoa(metrics.Stars)},
				{"age_in_days", strconv.Itoa(metrics.AgeInDays)},
				{"stars_per_day", fmtFloat(metrics.StarsPerDay)},
				{"annualized_growth_rate", fmtFloat(metrics.AnnualizedGrowthRate)},
				{"velocity_score", fmtFloat(metrics.VelocityScore)},
				{"consistency_score", fmtFloat(metrics.ConsistencyScore)},
				{"momentum_score", fmtFloat(metrics.MomentumScore)},
				{"prediction_30_days", strconv.Itoa(metrics.Prediction30Days)},
			}
			for _, m := range metrics.Milestones {
				rows = append(rows, []string{fmt.Sprintf("milestone_%d", m.Threshold), m.Date})
			}
			if bw := metrics.BestGrowthWindow; bw != nil {
				rows = append(rows, []string{"best_window_start", bw.StartDate})
				rows = append(rows, []string{"best_window_end", bw.EndDate})
				rows = append(rows, []string{"best_window_gained", strconv.Itoa(bw.Gained)})
			}
			for _, rec := range rows {
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeMetricsTable generates and writes the human-readable table.
func writeMetricsTable(ctx context.Context, metrics schema.RepoMetrics, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if !contract.ShouldSuppressHeader(ctx) {
		header := fmt.Sprintf("%s growth metrics (as of %s)", metrics.Identifier, metrics.AsOf.Format("2006-01-02"))
		if cfg.UseEmojis {
			header = "📊 " + header
		}
		if _, err := fmt.Fprintln(writer, header); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Stars", strconv.Itoa(metrics.Stars)},
		{"Age (days)", strconv.Itoa(metrics.AgeInDays)},
		{"Stars per day", fmtFloat(metrics.StarsPerDay)},
		{"Annualized growth", fmtFloat(metrics.AnnualizedGrowthRate) + "%"},
		{"Velocity", fmtFloat(metrics.VelocityScore) + " " + scoreLabel(metrics.VelocityScore, cfg)},
		{"Consistency", fmtFloat(metrics.ConsistencyScore) + " " + scoreLabel(metrics.ConsistencyScore, cfg)},
		{"Momentum", fmtFloat(metrics.MomentumScore) + " " + scoreLabel(metrics.MomentumScore, cfg)},
		{"30-day projection", strconv.Itoa(metrics.Prediction30Days)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(metrics.Milestones) > 0 {
		if err := writeMilestonesTable(metrics.Milestones, writer); err != nil {
			return err
		}
	}
	if w := metrics.BestGrowthWindow; w != nil {
		if _, err := fmt.Fprintf(writer, "Best growth window: %s to %s (+%d stars)\n", w.StartDate, w.EndDate, w.Gained); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeMilestonesTable renders the achieved milestone ladder.
func writeMilestonesTable(milestones []schema.Milestone, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Milestone", "Tier", "Reached"})
	table.Configure(func(tableCfg *tablewriter.Config) {
		tableCfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range milestones {
		data = append(data, []string{
			strconv.Itoa(m.Threshold),
			string(m.Tier),
			m.Date,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
