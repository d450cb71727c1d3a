package memory

import "testing"

func TestTablePutKeepsPositionAndRemoveCompacts(t *testing.T) {
	tbl := newTable[string]()
	tbl.put("a", "1")
	tbl.put("b", "2")
	tbl.put("c", "3")
	tbl.put("a", "1b")
	if got := tbl.values(); len(got) != 3 || got[0] != "1b" || got[2] != "3" {
		t.Fatalf("unexpected values %v", got)
	}
	cp := tbl.clone(func(s string) string { return s })
	if !tbl.remove("b") || tbl.remove("b") {
		t.Fatalf("remove must report presence once")
	}
	if tbl.len() != 2 || tbl.has("b") {
		t.Fatalf("expected b removed")
	}
	if cp.len() != 3 || !cp.has("b") {
		t.Fatalf("clone must be independent of later removals")
	}
	var zero table[int]
	zero.put("x", 1)
	if v, ok := zero.get("x"); !ok || v != 1 {
		t.Fatalf("zero table must accept puts")
	}
}
