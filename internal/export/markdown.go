package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"almacen/internal/model"
	"almacen/internal/report"
)

// The prose/table document flavor is rendered as Markdown.

// InventoryMarkdown renders the full inventory listing.
func InventoryMarkdown(items []*model.Item, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Inventory\n\n")
	b.WriteString("| ID | Code | Name | Quantity | Location | Status Today | Description |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, item := range items {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s | %s |\n",
			item.ID, mdCell(item.Code), mdCell(item.Name), item.Quantity,
			mdCell(item.Location), item.StatusToday(now), mdCell(item.Description))
	}
	return b.String()
}

// ItemMarkdown renders a single-item fact sheet.
func ItemMarkdown(item *model.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Fact sheet: %s\n\n", mdCell(item.Name))
	fmt.Fprintf(&b, "ID: %s | Code: %s | Stock: %d | Location: %s\n\n",
		item.ID, mdCell(item.Code), item.Quantity, mdCell(item.Location))
	b.WriteString("## Description\n\n")
	b.WriteString(item.Description + "\n\n")
	b.WriteString("## History\n\n")
	if len(item.History) == 0 {
		b.WriteString("No recorded movements.\n")
	}
	for _, line := range item.History {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

// DailyMarkdown renders the daily audit report: summary plus the
// chronological entry table.
func DailyMarkdown(s report.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily activity report (%s)\n\n", s.Date)
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Items created: %d\n", s.Created)
	fmt.Fprintf(&b, "- Items deleted: %d\n", s.Deleted)
	fmt.Fprintf(&b, "- Loans: %d\n", s.Loans)
	fmt.Fprintf(&b, "- Returns: %d\n\n", s.Returns)
	b.WriteString("## Chronological detail\n\n")
	b.WriteString("| Time | Action | Code | Item | Detail |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, e := range s.Chronological {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Time, e.Action, mdCell(e.Code), mdCell(e.Name), mdCell(e.Detail))
	}
	return b.String()
}

// WriteMarkdown writes a rendered document to path.
func WriteMarkdown(path, doc string) error {
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func mdCell(text string) string {
	return strings.ReplaceAll(text, "|", "\\|")
}
