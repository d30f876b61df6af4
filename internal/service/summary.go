package service

import (
	"context"
	"fmt"
	"strings"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store"
)

// pendingListCap bounds the pending section so summaries stay readable.
const pendingListCap = 10

// SummaryService renders an AI-readable Markdown report of a user's
// stored progress, grouped by status and by category.
type SummaryService struct {
	store store.Store
}

// NewSummaryService creates a SummaryService over the given store.
func NewSummaryService(st store.Store) *SummaryService {
	return &SummaryService{store: st}
}

// Generate builds the summary from stored progress. A user with no data
// gets a short "no progress" line, not an error.
func (s *SummaryService) Generate(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	doc, err := s.store.Progress().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return "No learning progress recorded yet.", nil
		}
		return "", err
	}
	return RenderSummary(doc.Data), nil
}

type summaryItem struct {
	category string
	title    string
}

func itemsByStatus(data model.Roadmap, status model.Status) []summaryItem {
	var out []summaryItem
	for _, cat := range data {
		for _, item := range cat.Items {
			if item.Status == status {
				out = append(out, summaryItem{category: cat.Title, title: item.Title})
			}
		}
	}
	return out
}

func writeStatusSection(b *strings.Builder, heading string, items []summaryItem, capAt int) {
	b.WriteString(fmt.Sprintf("## %s (%d)\n\n", heading, len(items)))
	if len(items) == 0 {
		b.WriteString("None\n\n")
		return
	}
	shown := items
	if capAt > 0 && len(shown) > capAt {
		shown = shown[:capAt]
	}
	for _, it := range shown {
		b.WriteString(fmt.Sprintf("- **%s** -> %s\n", it.category, it.title))
	}
	if len(items) > len(shown) {
		b.WriteString(fmt.Sprintf("... and %d more\n", len(items)-len(shown)))
	}
	b.WriteString("\n")
}

// RenderSummary is the pure Roadmap -> string transform behind Generate.
func RenderSummary(data model.Roadmap) string {
	var b strings.Builder
	stats := CalculateStats(data)

	b.WriteString("# Learning Roadmap - Detailed Progress\n\n")
	b.WriteString("## Overall\n\n")
	b.WriteString(fmt.Sprintf("- Total items: %d\n", stats.Total))
	b.WriteString(fmt.Sprintf("- Completed: %d (%d%%)\n", stats.Completed, stats.CompletionRate))
	b.WriteString(fmt.Sprintf("- In progress: %d\n", stats.InProgress))
	b.WriteString(fmt.Sprintf("- Pending: %d\n", stats.Pending))
	b.WriteString(fmt.Sprintf("- Skipped: %d\n\n", stats.Skipped))
	b.WriteString("---\n\n")

	writeStatusSection(&b, "Completed", itemsByStatus(data, model.StatusCompleted), 0)
	writeStatusSection(&b, "In Progress", itemsByStatus(data, model.StatusInProgress), 0)
	writeStatusSection(&b, "Skipped", itemsByStatus(data, model.StatusSkipped), 0)
	writeStatusSection(&b, "Pending", itemsByStatus(data, model.StatusPending), pendingListCap)

	b.WriteString("---\n\n## Per-Category Progress\n\n")
	for _, cat := range data {
		cs := stats.CategoryStats[cat.ID]
		b.WriteString(fmt.Sprintf("### %s\n", cat.Title))
		b.WriteString(fmt.Sprintf("- Progress: %d/%d (%d%%)\n", cs.Completed, cs.Total, cs.CompletionRate))
		b.WriteString(fmt.Sprintf("- Completed: %s\n", joinTitles(cat, model.StatusCompleted)))
		b.WriteString(fmt.Sprintf("- In progress: %s\n", joinTitles(cat, model.StatusInProgress)))
		b.WriteString(fmt.Sprintf("- Skipped: %s\n\n", joinTitles(cat, model.StatusSkipped)))
	}
	return b.String()
}

func joinTitles(cat model.KnowledgeCategory, status model.Status) string {
	var titles []string
	for _, item := range cat.Items {
		if item.Status == status {
			titles = append(titles, item.Title)
		}
	}
	if len(titles) == 0 {
		return "none"
	}
	return strings.Join(titles, ", ")
}
