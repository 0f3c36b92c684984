package domain

import "strconv"

// Join inner-joins tables on the column onKey. Only keys present in every
// table survive; rows follow the order of the first table. Every table must
// carry onKey exactly once per row value, otherwise Join fails with a
// JoinKeyError. Non-key columns that collide with an earlier column are
// suffixed with the source table's name (or its position), plus a counter
// when that name is taken too.
func Join(tables []*Table, onKey string) (*JoinedTable, error) {
	if len(tables) == 0 {
		return &JoinedTable{KeyColumns: []string{onKey}, Columns: []string{onKey}, Rows: [][]Value{}}, nil
	}

	keyIdx := make([]int, len(tables))
	lookups := make([]map[string]int, len(tables))
	for ti, t := range tables {
		j := t.ColumnIndex(onKey)
		if j < 0 {
			return nil, &JoinKeyError{Key: onKey, Table: t.Name, Index: ti, Reason: "lacks the join key"}
		}
		keyIdx[ti] = j
		lookup := make(map[string]int, len(t.Rows))
		for ri, r := range t.Rows {
			v := r[j]
			if v.IsMissing() {
				continue
			}
			k := v.groupKey()
			if _, dup := lookup[k]; dup {
				return nil, &JoinKeyError{Key: onKey, Table: t.Name, Index: ti, Reason: "holds duplicate key " + v.String()}
			}
			lookup[k] = ri
		}
		lookups[ti] = lookup
	}

	columns := []string{onKey}
	used := map[string]bool{onKey: true}
	for ti, t := range tables {
		for ci, c := range t.Columns {
			if ci == keyIdx[ti] {
				continue
			}
			name := c
			if used[name] {
				name = uniqueName(c+"_"+tableLabel(t, ti), used)
			}
			used[name] = true
			columns = append(columns, name)
		}
	}

	rows := [][]Value{}
	first := tables[0]
	for _, r := range first.Rows {
		key := r[keyIdx[0]]
		if key.IsMissing() {
			continue
		}
		k := key.groupKey()
		matched := make([]int, len(tables))
		ok := true
		for ti := range tables {
			ri, found := lookups[ti][k]
			if !found {
				ok = false
				break
			}
			matched[ti] = ri
		}
		if !ok {
			continue
		}
		row := make([]Value, 0, len(columns))
		row = append(row, key)
		for ti, t := range tables {
			src := t.Rows[matched[ti]]
			for ci, v := range src {
				if ci != keyIdx[ti] {
					row = append(row, v)
				}
			}
		}
		rows = append(rows, row)
	}

	return &JoinedTable{
		KeyColumns: []string{onKey},
		Columns:    columns,
		Rows:       rows,
	}, nil
}

// uniqueName returns base, or base_2, base_3 and so on, whichever is first
// absent from used.
func uniqueName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	return name
}

func tableLabel(t *Table, i int) string {
	if t.Name != "" {
		return t.Name
	}
	return strconv.Itoa(i + 1)
}
