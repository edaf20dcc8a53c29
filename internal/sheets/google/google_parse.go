package google

import (
	"fmt"
	"strings"
	"time"

	"possu/internal/core"
)

const rowDateLayout = "2006-01-02"

func entryRow(e core.Entry) []any {
	return []any{
		e.Date.Format(rowDateLayout),
		e.Description,
		core.FormatCents(e.Amount.Cents),
		e.Category,
	}
}

// parseEntryRows converts the entries sheet into entries. Rows that do not
// parse, including a header row, are skipped.
func parseEntryRows(values [][]any) []core.Entry {
	var out []core.Entry
	for _, row := range values {
		cols := toStrings(row)
		if len(cols) < 4 {
			continue
		}
		d, err := time.ParseInLocation(rowDateLayout, cols[0], time.UTC)
		if err != nil {
			continue
		}
		amount, err := core.ParseAmount(cols[2])
		if err != nil {
			continue
		}
		out = append(out, core.Entry{
			Date:        d,
			Description: cols[1],
			Amount:      amount,
			Category:    cols[3],
		})
	}
	return out
}

// column flattens the first cell of each row, dropping blanks, comments and
// duplicates while keeping order.
func column(values [][]any) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v == "" || strings.HasPrefix(v, "#") {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
