package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"roadmap-backend/internal/model"
)

// Export renderers are pure Roadmap -> string transforms, each prefixed
// with a generated stats header. File names embed the export date.

// ExportResult pairs rendered content with a suggested file name.
type ExportResult struct {
	Content  string `json:"content"`
	FileName string `json:"fileName"`
}

func exportFileName(ext string) string {
	return fmt.Sprintf("roadmap-%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
}

// ExportMarkdown renders the roadmap as a Markdown checklist with an
// optional stats header.
func ExportMarkdown(data model.Roadmap, includeStats bool) ExportResult {
	var b strings.Builder
	b.WriteString("# Learning Roadmap - Progress\n\n")
	b.WriteString(fmt.Sprintf("Exported: %s\n\n", model.NowISO()))

	if includeStats {
		stats := CalculateStats(data)
		b.WriteString("## Statistics\n\n")
		b.WriteString(fmt.Sprintf("- Total items: %d\n", stats.Total))
		b.WriteString(fmt.Sprintf("- Completed: %d (%d%%)\n", stats.Completed, stats.CompletionRate))
		b.WriteString(fmt.Sprintf("- In progress: %d\n", stats.InProgress))
		b.WriteString(fmt.Sprintf("- Pending: %d\n", stats.Pending))
		b.WriteString(fmt.Sprintf("- Skipped: %d\n\n", stats.Skipped))
		b.WriteString("---\n\n")
	}

	for _, cat := range data {
		b.WriteString(fmt.Sprintf("## %s\n\n", cat.Title))
		if cat.Description != "" {
			b.WriteString(fmt.Sprintf("> %s\n\n", cat.Description))
		}
		for _, item := range cat.Items {
			checkbox := "[ ]"
			if item.Status == model.StatusCompleted {
				checkbox = "[x]"
			}
			b.WriteString(fmt.Sprintf("- %s **%s** (%s)\n", checkbox, item.Title, item.Status.Label()))
			if item.Description != "" {
				b.WriteString(fmt.Sprintf("  - %s\n", item.Description))
			}
			if len(item.Resources) > 0 {
				b.WriteString("  - Resources:\n")
				for _, r := range item.Resources {
					b.WriteString(fmt.Sprintf("    - [%s](%s) - %s\n", r.Title, r.URL, r.Type))
				}
			}
		}
		if len(cat.Items) > 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("---\n\n*Generated by the learning roadmap tracker*\n")
	return ExportResult{Content: b.String(), FileName: exportFileName("md")}
}

// csvField sanitizes free text for CSV emission: commas become full-width
// commas and newlines become spaces, so every record stays on one line and
// spreadsheet imports never mis-split columns.
func csvField(s string) string {
	s = strings.ReplaceAll(s, ",", "，")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// ExportCSV renders one row per knowledge item. Output is UTF-8 with a
// leading BOM for spreadsheet compatibility.
func ExportCSV(data model.Roadmap) ExportResult {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString("Category ID,Category,Item ID,Item,Status,Description,Resources\n")
	for _, cat := range data {
		for _, item := range cat.Items {
			b.WriteString(fmt.Sprintf("\"%s\",\"%s\",\"%s\",\"%s\",\"%s\",\"%s\",\"%d\"\n",
				csvField(cat.ID), csvField(cat.Title),
				csvField(item.ID), csvField(item.Title),
				item.Status.Label(), csvField(item.Description),
				len(item.Resources)))
		}
	}
	return ExportResult{Content: b.String(), FileName: exportFileName("csv")}
}

// ExportJSON wraps the roadmap in a small versioned envelope.
func ExportJSON(data model.Roadmap, pretty bool) (ExportResult, error) {
	envelope := struct {
		Version    string        `json:"version"`
		ExportedAt string        `json:"exportedAt"`
		Stats      model.Stats   `json:"stats"`
		Data       model.Roadmap `json:"data"`
	}{
		Version:    "1.0",
		ExportedAt: model.NowISO(),
		Stats:      CalculateStats(data),
		Data:       data,
	}
	var raw []byte
	var err error
	if pretty {
		raw, err = json.MarshalIndent(envelope, "", "  ")
	} else {
		raw, err = json.Marshal(envelope)
	}
	if err != nil {
		return ExportResult{}, model.NewValidationError("data", "data is not serializable")
	}
	return ExportResult{Content: string(raw), FileName: exportFileName("json")}, nil
}

// ExportText renders a plain-text progress listing, one line per item.
func ExportText(data model.Roadmap) ExportResult {
	var b strings.Builder
	stats := CalculateStats(data)
	b.WriteString("Learning Roadmap Progress\n")
	b.WriteString(fmt.Sprintf("Completed %d of %d (%d%%)\n\n", stats.Completed, stats.Total, stats.CompletionRate))
	for _, cat := range data {
		b.WriteString(cat.Title + "\n")
		for _, item := range cat.Items {
			b.WriteString(fmt.Sprintf("  [%s] %s\n", item.Status.Label(), item.Title))
		}
	}
	return ExportResult{Content: b.String(), FileName: exportFileName("txt")}
}
