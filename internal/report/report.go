// Package report renders battery reports for people: JSON for tools,
// Markdown for terminals and HTML for browsers.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gotyche/domain/stats"
	"gotyche/internal/nist"
)

// Format selects an output rendering
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts json, markdown/md and html
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// ContentType returns the HTTP media type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json"
	}
}

// Write renders v in the requested format. Markdown and HTML are only
// available for reports and self-test results; other values fall back to JSON.
func Write(w io.Writer, format Format, v interface{}) error {
	var md string
	switch r := v.(type) {
	case *stats.Report:
		md = Markdown(r)
	case []nist.SelfTestResult:
		md = SelfTestMarkdown(r)
	default:
		format = FormatJSON
	}

	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, md)
		return err
	case FormatHTML:
		_, err := w.Write(HTML(md, "Randomness report"))
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// Verdict labels an aggregate result
func Verdict(agg stats.AggregateResult) string {
	switch {
	case agg.Skipped:
		return "SKIP"
	case agg.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}

// Markdown renders a report as one table per column
func Markdown(r *stats.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Randomness report: %s\n\n", r.Dataset)
	fmt.Fprintf(&sb, "- Run: `%s`\n", r.RunID)
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "- Created: %s\n", r.CreatedAt.Time().UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "- Encoding: %s\n", r.Params)
	fmt.Fprintf(&sb, "- Condition: %g, pass bar: %g\n", r.Condition, r.PassBar)
	fmt.Fprintf(&sb, "- Fingerprint: `%s`\n", r.Fingerprint)

	for _, col := range r.Columns {
		fmt.Fprintf(&sb, "\n## %s\n\n", col.Column)
		fmt.Fprintf(&sb, "%d streams, %d of %d tests passed.\n\n", col.Streams, col.PassedCount(), len(col.Aggregates))
		sb.WriteString("| Test | Aggregate p | Pass fraction | Skips | Verdict |\n")
		sb.WriteString("|---|---:|---:|---:|---|\n")
		for _, agg := range col.Aggregates {
			fmt.Fprintf(&sb, "| %s | %.6f | %.4f | %d | %s |\n",
				agg.Test.Title(), agg.AggregatePValue, agg.PassFraction, agg.Skips, Verdict(agg))
		}
	}
	return sb.String()
}

// SelfTestMarkdown renders reference vector results
func SelfTestMarkdown(results []nist.SelfTestResult) string {
	var sb strings.Builder
	sb.WriteString("# Reference vectors\n\n")
	sb.WriteString("| Vector | Expected | Actual | Result |\n")
	sb.WriteString("|---|---:|---:|---|\n")
	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "MISMATCH"
		}
		fmt.Fprintf(&sb, "| %s | %.6f | %.6f | %s |\n", r.Name, r.Expected, r.Actual, status)
	}
	return sb.String()
}

// HTML converts Markdown into a standalone page
func HTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}
