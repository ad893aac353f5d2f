package pagination

import "testing"

func TestNewMetaMiddlePage(t *testing.T) {
	m := NewMeta(2, 10, 25)
	if m.CurrentPage != 2 || m.TotalPages != 3 || m.TotalCount != 25 || m.Limit != 10 {
		t.Fatalf("unexpected meta: %+v", m)
	}
	if !m.HasNext || !m.HasPrev {
		t.Fatalf("middle page must have both neighbours: %+v", m)
	}
	if m.NextPage == nil || *m.NextPage != 3 {
		t.Errorf("nextPage = %v, want 3", m.NextPage)
	}
	if m.PrevPage == nil || *m.PrevPage != 1 {
		t.Errorf("prevPage = %v, want 1", m.PrevPage)
	}
}

func TestNewMetaFirstPage(t *testing.T) {
	m := NewMeta(1, 10, 25)
	if m.HasPrev || m.PrevPage != nil {
		t.Fatalf("first page must have no previous: %+v", m)
	}
	if !m.HasNext || m.NextPage == nil || *m.NextPage != 2 {
		t.Fatalf("first of three pages must have a next: %+v", m)
	}
}

func TestNewMetaLastPage(t *testing.T) {
	m := NewMeta(3, 10, 25)
	if m.HasNext || m.NextPage != nil {
		t.Fatalf("last page must have no next: %+v", m)
	}
	if !m.HasPrev || m.PrevPage == nil || *m.PrevPage != 2 {
		t.Fatalf("last page must have a previous: %+v", m)
	}
}

func TestNewMetaEmpty(t *testing.T) {
	m := NewMeta(1, 10, 0)
	if m.TotalPages != 0 || m.HasNext || m.HasPrev {
		t.Fatalf("empty set: %+v", m)
	}
}

func TestNewMetaExactMultiple(t *testing.T) {
	m := NewMeta(1, 10, 30)
	if m.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", m.TotalPages)
	}
}

func TestNewMetaBeyondLastPage(t *testing.T) {
	m := NewMeta(9, 10, 25)
	if m.HasNext {
		t.Fatalf("page beyond the end must not advertise a next page: %+v", m)
	}
	if !m.HasPrev {
		t.Fatalf("page beyond the end still has previous pages: %+v", m)
	}
}
