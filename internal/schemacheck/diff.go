package schemacheck

import (
	"fmt"
	"sort"
)

// Diff lists the tables and columns used in code but absent from the live
// schema, tables first in name order, each followed by its missing columns.
func Diff(usage Usage, live Schema) []string {
	tables := make([]string, 0, len(usage))
	for t := range usage {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var out []string
	for _, t := range tables {
		cols, ok := live[t]
		if !ok {
			out = append(out, "Missing table: "+t)
			continue
		}
		have := make(map[string]bool, len(cols))
		for _, c := range cols {
			have[c] = true
		}
		for _, c := range usage[t] {
			if !have[c] {
				out = append(out, fmt.Sprintf("Missing column: %s.%s", t, c))
			}
		}
	}
	return out
}
