package domain

import (
	"sort"
	"testing"
)

func TestLookupCategory(t *testing.T) {
	c, ok := LookupCategory("key_moments")
	if !ok {
		t.Fatal("key_moments should exist")
	}
	if c.Name != "Key Moments" {
		t.Errorf("name = %q, want title-cased id", c.Name)
	}
	if len(c.Templates) == 0 {
		t.Error("category has no prompt templates")
	}

	if _, ok := LookupCategory("  action  "); !ok {
		t.Error("ids should be trimmed before lookup")
	}
	if _, ok := LookupCategory("does-not-exist"); ok {
		t.Error("unknown id should miss")
	}
}

func TestCategoriesSortedAndComplete(t *testing.T) {
	cats := Categories()
	if len(cats) != 6 {
		t.Fatalf("got %d categories, want 6", len(cats))
	}
	if !sort.SliceIsSorted(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID }) {
		t.Error("catalog not sorted by id")
	}
	for _, c := range cats {
		if c.Name == "" || c.Description == "" || len(c.Templates) == 0 {
			t.Errorf("category %q incomplete: %+v", c.ID, c)
		}
	}
}

func TestErrorTaxonomy(t *testing.T) {
	err := NewResourceError("source gone", ErrNotFound)
	if !IsKind(err, ErrKindResource) {
		t.Error("wrong kind")
	}
	if err.Unwrap() != ErrNotFound {
		t.Error("cause not preserved")
	}
	if ErrorKindOf(ErrNotFound) != ErrKindInternal {
		t.Error("unclassified errors default to internal")
	}
}
