package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wellFormedTable = `| Product Name | Supply Name | Analysis | Promotional Strategy |
| :---: | :---: | :---: | :---: |
| Widget A | Acme | Overstocked | 30% off for 2 weeks |
| Widget B | Acme | Priced too high | Buy one get one free |
| Widget C | Globex | Seasonal mismatch | Bundle with Widget A |
| Widget D | Initech | Weak placement | Exclusive live stream |
| Widget E | Umbrella | New competitor | Direct 40% clearance |`

func TestParseTableWellFormed(t *testing.T) {
	rows := ParseTable(wellFormedTable)

	assert.Len(t, rows, 5)
	for _, row := range rows {
		assert.Len(t, row, 4)
		assert.Contains(t, row, "Product Name")
		assert.Contains(t, row, "Supply Name")
		assert.Contains(t, row, "Analysis")
		assert.Contains(t, row, "Promotional Strategy")
	}
	assert.Equal(t, "Widget A", rows[0]["Product Name"])
	assert.Equal(t, "Direct 40% clearance", rows[4]["Promotional Strategy"])
}

func TestParseTableIgnoresLeadingProse(t *testing.T) {
	text := "Here are my suggestions:\n\nSome more prose.\n" + wellFormedTable
	rows := ParseTable(text)

	assert.Len(t, rows, 5)
	assert.Equal(t, "Widget A", rows[0]["Product Name"])
}

func TestParseTableMalformedYieldsEmpty(t *testing.T) {
	assert.Empty(t, ParseTable("no table here at all"))
	assert.Empty(t, ParseTable(""))
	// Header without a separator line is not a table.
	assert.Empty(t, ParseTable("| A | B |\n| one | two |"))
	// Separator without a header line is not a table either.
	assert.Empty(t, ParseTable("some text\n| :---: | :---: |"))
}

func TestParseTableAcceptsFewerThanFiveRows(t *testing.T) {
	text := `| Product Name | Supply Name | Analysis | Promotional Strategy |
| --- | --- | --- | --- |
| Only A | S1 | slow | discount |
| Only B | S2 | slower | bundle |
| Only C | S3 | slowest | clearance |`

	rows := ParseTable(text)
	assert.Len(t, rows, 3)
}

func TestParseTableSkipsRowsWithWrongCellCount(t *testing.T) {
	text := `| A | B |
| --- | --- |
| one | two |
| one | two | three |
| uno | dos |`

	rows := ParseTable(text)
	assert.Len(t, rows, 2)
	assert.Equal(t, "uno", rows[1]["A"])
}

func TestParseTableStopsAtFirstNonTableLine(t *testing.T) {
	text := `| A | B |
| --- | --- |
| one | two |
That concludes the table.
| three | four |`

	rows := ParseTable(text)
	assert.Len(t, rows, 1)
}

func TestParseTableStripsBoldMarkup(t *testing.T) {
	text := "| **Product Name** | **Analysis** |\n| --- | --- |\n| **Widget** | slow |"

	rows := ParseTable(text)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0]["Product Name"])
}

func TestToRecommendationsMapsFixedColumns(t *testing.T) {
	rows := ParseTable(wellFormedTable)
	recs := ToRecommendations(rows)

	assert.Len(t, recs, 5)
	assert.Equal(t, "Widget B", recs[1].ProductName)
	assert.Equal(t, "Acme", recs[1].SupplyName)
	assert.Equal(t, "Priced too high", recs[1].Analysis)
	assert.Equal(t, "Buy one get one free", recs[1].PromotionalStrategy)
}

func TestErrorTableIsParseable(t *testing.T) {
	rows := ParseTable(errorTable("API Error", "quota exhausted"))

	assert.Len(t, rows, 1)
	assert.Equal(t, "API Error", rows[0]["Product Name"])
	assert.Contains(t, rows[0]["Analysis"], "quota exhausted")
}

func TestKeepTableLinesDropsProseAndFences(t *testing.T) {
	raw := "Sure! Here is the table:\n```markdown\n| A | B |\n| --- | --- |\n| one | two |\n```\nHope this helps."

	cleaned := keepTableLines(raw)
	lines := strings.Split(cleaned, "\n")

	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "|"))
	}
}
