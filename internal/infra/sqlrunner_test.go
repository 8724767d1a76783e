package infra

import (
	"strings"
	"testing"
)

func TestExtractMarker(t *testing.T) {
	query := "--sql 5d24749b-7b67-46c6-bdfa-05046b3ab051\nselect 1;"
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if marker != "5d24749b-7b67-46c6-bdfa-05046b3ab051" {
		t.Errorf("marker = %q", marker)
	}
	if strings.TrimSpace(trimmed) != "select 1;" {
		t.Errorf("trimmed = %q", trimmed)
	}
}

func TestExtractMarkerRejectsUnmarkedQueries(t *testing.T) {
	for _, q := range []string{
		"select 1;",
		"--sql not-a-uuid\nselect 1;",
		"",
	} {
		if _, _, err := extractMarker(q); err == nil {
			t.Errorf("query %q should be rejected", q)
		}
	}
}
