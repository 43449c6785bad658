package advisor

import (
	"log"
	"strings"

	"app/models"
)

// ParseTable extracts the first Markdown table from arbitrary text.
//
// The table starts at the first pair of lines where the former starts and
// ends with '|' without being a separator, and the latter is a separator
// line. Data rows are kept only when their cell count matches the header's;
// the first line that does not start with '|' ends the table. Returns an
// empty slice when no table is found.
func ParseTable(text string) []map[string]string {
	lines := strings.Split(text, "\n")

	var headers []string
	start := -1
	for i := 1; i < len(lines); i++ {
		prev := strings.TrimSpace(lines[i-1])
		cur := strings.TrimSpace(lines[i])
		if strings.HasPrefix(prev, "|") && strings.HasSuffix(prev, "|") &&
			!isSeparator(prev) && isSeparator(cur) {
			headers = splitCells(prev)
			start = i + 1
			break
		}
	}
	if start < 0 || len(headers) == 0 {
		log.Println("no markdown table found in advisor output")
		return []map[string]string{}
	}

	rows := []map[string]string{}
	for _, line := range lines[start:] {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			break
		}
		cells := splitCells(line)
		if len(cells) != len(headers) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = cells[i]
		}
		rows = append(rows, row)
	}

	return rows
}

// ToRecommendations maps parsed table rows onto the fixed recommendation
// columns. Unknown columns are dropped, missing ones stay empty.
func ToRecommendations(rows []map[string]string) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, models.Recommendation{
			ProductName:         row["Product Name"],
			SupplyName:          row["Supply Name"],
			Analysis:            row["Analysis"],
			PromotionalStrategy: row["Promotional Strategy"],
		})
	}
	return recs
}

func isSeparator(line string) bool {
	return strings.Contains(line, "---")
}

// splitCells splits a pipe-delimited row into trimmed cells with bold
// markup removed.
func splitCells(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cell := strings.TrimSpace(p)
		cell = strings.ReplaceAll(cell, "**", "")
		cells = append(cells, cell)
	}
	return cells
}
