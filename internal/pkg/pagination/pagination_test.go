package pagination

import "testing"

func TestGetMeta(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		total      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"first of many", Params{Page: 1, Limit: 20}, 45, 3, true, false},
		{"middle page", Params{Page: 2, Limit: 20, Offset: 20}, 45, 3, true, true},
		{"last page", Params{Page: 3, Limit: 20, Offset: 40}, 45, 3, false, true},
		{"exact fit", Params{Page: 1, Limit: 20}, 40, 2, true, false},
		{"empty set", Params{Page: 1, Limit: 20}, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := GetMeta(&tt.params, tt.total)
			if meta.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d, want %d", meta.TotalPages, tt.totalPages)
			}
			if meta.HasNext != tt.hasNext {
				t.Errorf("HasNext = %v, want %v", meta.HasNext, tt.hasNext)
			}
			if meta.HasPrev != tt.hasPrev {
				t.Errorf("HasPrev = %v, want %v", meta.HasPrev, tt.hasPrev)
			}
		})
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Page(items, &Params{Page: 2, Limit: 2, Offset: 2})
	if len(page) != 2 || page[0] != 3 || page[1] != 4 {
		t.Errorf("unexpected page %v", page)
	}
	if meta.Total != 5 || meta.TotalPages != 3 {
		t.Errorf("unexpected meta %+v", meta)
	}
}

func TestPagePastEnd(t *testing.T) {
	items := []int{1, 2, 3}

	page, _ := Page(items, &Params{Page: 5, Limit: 10, Offset: 40})
	if len(page) != 0 {
		t.Errorf("expected empty page, got %v", page)
	}
}
