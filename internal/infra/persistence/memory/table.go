package memory

// table keeps records keyed by id while remembering insertion order.
type table[E any] struct {
	rows  map[string]E
	order []string
}

func newTable[E any]() table[E] {
	return table[E]{rows: make(map[string]E)}
}

func (t table[E]) get(id string) (E, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t table[E]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

// put inserts or replaces a row. Replacement keeps the original position.
func (t *table[E]) put(id string, row E) {
	if t.rows == nil {
		t.rows = make(map[string]E)
	}
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[E]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t table[E]) len() int {
	return len(t.order)
}

// values returns rows in insertion order without cloning.
func (t table[E]) values() []E {
	out := make([]E, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t table[E]) clone(cloneRow func(E) E) table[E] {
	cp := table[E]{
		rows:  make(map[string]E, len(t.rows)),
		order: append([]string(nil), t.order...),
	}
	for id, row := range t.rows {
		cp.rows[id] = cloneRow(row)
	}
	return cp
}
