package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams_Defaults verifies default page params when no query values provided.
func TestParsePageParams_Defaults(t *testing.T) {
	p := ParsePageParams(url.Values{})
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected per_page %d, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParsePageParams_Valid verifies correct parsing of valid page and per_page values.
func TestParsePageParams_Valid(t *testing.T) {
	p := ParsePageParams(url.Values{"page": {"3"}, "per_page": {"16"}})
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.PerPage != 16 {
		t.Errorf("expected per_page 16, got %d", p.PerPage)
	}
}

// TestParsePageParams_Invalid verifies fallbacks for junk input.
func TestParsePageParams_Invalid(t *testing.T) {
	p := ParsePageParams(url.Values{"page": {"-1"}, "per_page": {"25"}})
	if p.Page != 1 {
		t.Errorf("expected page 1 for negative input, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Errorf("expected default per_page %d for invalid value, got %d", DefaultPerPage, p.PerPage)
	}
}

// TestParseSortParams verifies column whitelisting and direction defaults.
func TestParseSortParams(t *testing.T) {
	cols := []string{"name", "submitted"}
	tests := []struct {
		name     string
		q        url.Values
		wantSort string
		wantDir  string
	}{
		{"valid", url.Values{"sort": {"name"}, "dir": {"asc"}}, "name", "asc"},
		{"disallowed column", url.Values{"sort": {"password"}}, "", "desc"},
		{"invalid dir", url.Values{"sort": {"name"}, "dir": {"DROP TABLE"}}, "name", "desc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseSortParams(tt.q, cols)
			if s.Sort != tt.wantSort || s.Dir != tt.wantDir {
				t.Errorf("got %s/%s, want %s/%s", s.Sort, s.Dir, tt.wantSort, tt.wantDir)
			}
		})
	}
}

// TestParseListParams_QueryRoundTrip keeps only non-default values.
func TestParseListParams_QueryRoundTrip(t *testing.T) {
	p := ParseListParams(url.Values{"q": {"  zone 3 "}, "page": {"2"}}, nil)
	if p.Search != "zone 3" {
		t.Errorf("expected trimmed search, got %q", p.Search)
	}
	if got := p.Query().Encode(); got != "page=2&q=zone+3" {
		t.Errorf("unexpected query %s", got)
	}
	p.Page = 1
	p.Search = ""
	if got := p.Query().Encode(); got != "" {
		t.Errorf("expected empty query for defaults, got %s", got)
	}
}

// TestNewPageInfo verifies pagination metadata computation.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		perPage    int
		total      int
		wantPages  int
		wantPage   int
		wantStart  int
		wantEnd    int
		wantOffset int
	}{
		{"basic", 1, 8, 30, 4, 1, 1, 8, 0},
		{"page2", 2, 8, 30, 4, 2, 9, 16, 8},
		{"lastPage", 4, 8, 30, 4, 4, 25, 30, 24},
		{"pageBeyondTotal", 10, 8, 30, 4, 4, 25, 30, 24},
		{"emptyList", 1, 8, 0, 1, 1, 0, 0, 0},
		{"exactFit", 1, 8, 8, 1, 1, 1, 8, 0},
		{"zeroPerPage", 1, 0, 3, 1, 1, 1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, tt.perPage, tt.total)
			if pi.TotalPages != tt.wantPages {
				t.Errorf("TotalPages: got %d, want %d", pi.TotalPages, tt.wantPages)
			}
			if pi.Page != tt.wantPage {
				t.Errorf("Page: got %d, want %d", pi.Page, tt.wantPage)
			}
			if pi.StartRow() != tt.wantStart {
				t.Errorf("StartRow: got %d, want %d", pi.StartRow(), tt.wantStart)
			}
			if pi.EndRow() != tt.wantEnd {
				t.Errorf("EndRow: got %d, want %d", pi.EndRow(), tt.wantEnd)
			}
			if pi.Offset() != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", pi.Offset(), tt.wantOffset)
			}
		})
	}
}

// TestPageInfo_Summary renders the entries caption.
func TestPageInfo_Summary(t *testing.T) {
	if got := NewPageInfo(2, 8, 30).Summary(); got != "Showing 9 to 16 of 30 entries" {
		t.Errorf("unexpected summary %q", got)
	}
	if got := NewPageInfo(1, 8, 0).Summary(); got != "Showing 0 to 0 of 0 entries" {
		t.Errorf("unexpected empty summary %q", got)
	}
}

// TestPageNumbers verifies page number window generation.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name string
		page int
		tot  int
		want []int
	}{
		{"3pages_at1", 1, 3, []int{1, 2, 3}},
		{"10pages_at1", 1, 10, []int{1, 2, 3, 4, 5}},
		{"10pages_at5", 5, 10, []int{3, 4, 5, 6, 7}},
		{"10pages_at10", 10, 10, []int{6, 7, 8, 9, 10}},
		{"1page", 1, 1, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, 8, tt.tot*8)
			got := pi.PageNumbers()
			if len(got) != len(tt.want) {
				t.Fatalf("PageNumbers length: got %d, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("PageNumbers[%d]: got %d, want %d", i, v, tt.want[i])
				}
			}
		})
	}
}

// TestPrevNext verifies the neighbour links.
func TestPrevNext(t *testing.T) {
	first := NewPageInfo(1, 8, 20)
	if first.HasPrev() || !first.HasNext() {
		t.Error("first page: expected next only")
	}
	last := NewPageInfo(3, 8, 20)
	if !last.HasPrev() || last.HasNext() {
		t.Error("last page: expected prev only")
	}
}

// TestShowPagination verifies pagination visibility logic.
func TestShowPagination(t *testing.T) {
	if NewPageInfo(1, 8, 8).ShowPagination() {
		t.Error("should not show pagination when total == perPage")
	}
	if !NewPageInfo(1, 8, 9).ShowPagination() {
		t.Error("should show pagination when total > perPage")
	}
}

// TestSlice returns the rows of the current page.
func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := Slice(items, NewPageInfo(2, 8, len(items))); len(got) != 2 || got[0] != 9 {
		t.Errorf("unexpected page 2 %v", got)
	}
	if got := Slice([]int{}, NewPageInfo(1, 8, 0)); len(got) != 0 {
		t.Errorf("expected empty page, got %v", got)
	}
}
