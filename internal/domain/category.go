package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category describes one entry of the fixed summarization catalog. Prompt
// templates drive text-prompt style matching so callers pick an id instead of
// authoring prose.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Templates   []string `json:"-"`
}

var categoryCatalog = map[string]Category{
	"action": {
		ID:          "action",
		Description: "High-motion, fast-paced moments",
		Templates: []string{
			"fast-paced action with rapid movement",
			"intense physical activity or sports",
		},
	},
	"dialogue": {
		ID:          "dialogue",
		Description: "People talking or presenting",
		Templates: []string{
			"people having a conversation",
			"a person speaking to the camera",
		},
	},
	"landscape": {
		ID:          "landscape",
		Description: "Scenic wide shots of places and nature",
		Templates: []string{
			"a scenic landscape view",
			"wide shots of nature and scenery",
		},
	},
	"people": {
		ID:          "people",
		Description: "Faces and groups of people",
		Templates: []string{
			"a close-up of a person's face",
			"a group of people together",
		},
	},
	"text": {
		ID:          "text",
		Description: "On-screen text, titles, and captions",
		Templates: []string{
			"text, captions or titles displayed on screen",
		},
	},
	"key_moments": {
		ID:          "key_moments",
		Description: "Dramatic highlights and memorable moments",
		Templates: []string{
			"an important dramatic highlight",
			"a memorable key moment of the video",
		},
	},
}

var titleCaser = cases.Title(language.English)

// LookupCategory returns the catalog entry for id.
func LookupCategory(id string) (Category, bool) {
	c, ok := categoryCatalog[strings.TrimSpace(id)]
	if !ok {
		return Category{}, false
	}
	c.Name = titleCaser.String(strings.ReplaceAll(c.ID, "_", " "))
	return c, true
}

// Categories lists the full catalog sorted by id. The catalog is fixed and
// read-only; the returned slice is a copy.
func Categories() []Category {
	out := make([]Category, 0, len(categoryCatalog))
	for id := range categoryCatalog {
		c, _ := LookupCategory(id)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
