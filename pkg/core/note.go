package core

import "strings"

// Note is the central entity of the domain.
// Its category set references Category.Name, not Category.ID.
type Note struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Content    string   `json:"content" yaml:"content"`
	Summary    string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Author     string   `json:"author,omitempty" yaml:"author,omitempty"`
	UpdatedAt  int64    `json:"updatedAt" yaml:"updatedAt"` // Unix milliseconds
	Categories []string `json:"categories" yaml:"categories"`
	IsPinned   bool     `json:"isPinned" yaml:"isPinned"`
}

// IsSystem reports whether the note is system-authored (announcements and the welcome note).
// System notes are hidden from unprivileged viewers and exempt from category cascades.
func (n Note) IsSystem() bool {
	return n.ID == WelcomeNoteID || n.HasCategory(SystemCategory)
}

// HasCategory reports exact membership of name in the note's category set.
func (n Note) HasCategory(name string) bool {
	for _, c := range n.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// IsUncategorized reports the derived "no categories" state.
// The welcome note never counts as uncategorized.
func (n Note) IsUncategorized() bool {
	return len(n.Categories) == 0 && n.ID != WelcomeNoteID
}

// sameAs reports whether every stored field of n matches other.
func (n Note) sameAs(other Note) bool {
	if n.ID != other.ID || n.Title != other.Title || n.Content != other.Content ||
		n.Summary != other.Summary || n.Author != other.Author ||
		n.UpdatedAt != other.UpdatedAt || n.IsPinned != other.IsPinned ||
		len(n.Categories) != len(other.Categories) {
		return false
	}
	for i := range n.Categories {
		if n.Categories[i] != other.Categories[i] {
			return false
		}
	}
	return true
}

func (n Note) clone() Note {
	n.Categories = append([]string(nil), n.Categories...)
	if n.Categories == nil {
		n.Categories = []string{}
	}
	return n
}

// NoteInput carries the fields of a note being created.
type NoteInput struct {
	Title      string
	Content    string
	Summary    string
	Author     string
	Categories []string
	IsPinned   bool
}

// NotePatch is a partial update. Nil fields are left untouched.
type NotePatch struct {
	Title      *string
	Content    *string
	Summary    *string
	Author     *string
	Categories *[]string
	IsPinned   *bool
}

// normalizeCategories trims names, drops empties and the virtual uncategorized
// label, and removes duplicates keeping the first occurrence.
func normalizeCategories(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == UncategorizedLabel {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.clone()
	}
	return out
}
