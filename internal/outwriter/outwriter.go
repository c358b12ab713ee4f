// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/starscope/starscope/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// scoreLabel returns the growth label for a score, colored when the
// configuration asks for it.
func scoreLabel(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// getTerminalWidth resolves the usable terminal width, honoring the
// width override from flag/env before falling back to detection.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default for narrow terminals and CI
		return 80
	}
	return detectedWidth
}

const (
	minIdentifierWidth = 15
	maxIdentifierWidth = 60
)

// getMaxIdentifierWidth calculates the maximum width for repository
// identifiers in table output based on terminal width and the fixed
// numeric columns.
func getMaxIdentifierWidth(cfg *contract.Config) int {
	termWidth := getTerminalWidth(cfg)

	// Reserve space for fixed columns with table formatting
	baseWidth := 35 // Date + Stars + Gained with borders/padding

	if cfg.Detail {
		baseWidth += 20 // Method + label column with formatting
	}

	available := termWidth - baseWidth
	if available < minIdentifierWidth {
		return minIdentifierWidth
	}
	if available > maxIdentifierWidth {
		return maxIdentifierWidth
	}
	return available
}

// truncateIdentifier shortens an identifier to at most maxLen runes,
// keeping the tail since the repository name carries the signal.
func truncateIdentifier(identifier string, maxLen int) string {
	runes := []rune(identifier)
	if len(runes) <= maxLen {
		return identifier
	}
	if maxLen <= 3 {
		return string(runes[len(runes)-maxLen:])
	}
	return "..." + string(runes[len(runes)-(maxLen-3):])
}
