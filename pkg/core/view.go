package core

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption selects the comparator applied within each pin tier.
type SortOption string

const (
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
	SortAZ     SortOption = "az"
	SortZA     SortOption = "za"
)

// FilterKind tags the category filter so the virtual filters never touch the collection.
type FilterKind string

const (
	FilterAll           FilterKind = "all"
	FilterUncategorized FilterKind = "uncategorized"
	FilterNamed         FilterKind = "named"
)

// CategoryFilter selects notes by category membership.
type CategoryFilter struct {
	Kind FilterKind `json:"kind"`
	Name string     `json:"name,omitempty"`
}

// AllCategories matches every note.
func AllCategories() CategoryFilter { return CategoryFilter{Kind: FilterAll} }

// Uncategorized matches notes with an empty category set.
func Uncategorized() CategoryFilter { return CategoryFilter{Kind: FilterUncategorized} }

// InCategory matches notes whose set contains name.
func InCategory(name string) CategoryFilter { return CategoryFilter{Kind: FilterNamed, Name: name} }

// DateRange bounds updatedAt by local calendar days (YYYY-MM-DD). Empty bounds are open.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// DateLayout is the calendar-day layout of DateRange bounds.
const DateLayout = "2006-01-02"

// ViewState is the serializable UI state the view engine derives from.
type ViewState struct {
	Search         string         `json:"search,omitempty"`
	Category       CategoryFilter `json:"category"`
	DateRange      DateRange      `json:"dateRange"`
	Sort           SortOption     `json:"sort"`
	CategorySearch string         `json:"categorySearch,omitempty"`
	Privileged     bool           `json:"privileged"`
}

// Locale carries the time zone of date bounds and the language of string comparison.
type Locale struct {
	Location *time.Location
	Language language.Tag
}

// DefaultLocale uses the local time zone and undetermined-language collation.
func DefaultLocale() Locale {
	return Locale{Location: time.Local, Language: language.Und}
}

func (l Locale) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

func (l Locale) collator() *collate.Collator {
	return collate.New(l.Language)
}

// Bounds returns the inclusive millisecond bounds of the range.
// A nil pointer means the side is open. Unparseable bounds are treated as open.
func (r DateRange) Bounds(loc *time.Location) (start, end *int64) {
	if r.Start != "" {
		if d, err := time.ParseInLocation(DateLayout, r.Start, loc); err == nil {
			ms := d.UnixMilli()
			start = &ms
		}
	}
	if r.End != "" {
		if d, err := time.ParseInLocation(DateLayout, r.End, loc); err == nil {
			ms := d.AddDate(0, 0, 1).UnixMilli() - 1
			end = &ms
		}
	}
	return start, end
}

// FilterNotes returns the notes visible under vs, preserving collection order.
func FilterNotes(notes []Note, vs ViewState, loc Locale) []Note {
	search := strings.ToLower(vs.Search)
	start, end := vs.DateRange.Bounds(loc.location())

	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.IsSystem() && !vs.Privileged {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(n.Title), search) &&
			!strings.Contains(strings.ToLower(n.Content), search) {
			continue
		}
		switch vs.Category.Kind {
		case FilterUncategorized:
			if !n.IsUncategorized() {
				continue
			}
		case FilterNamed:
			if !n.HasCategory(vs.Category.Name) {
				continue
			}
		}
		if start != nil && n.UpdatedAt < *start {
			continue
		}
		if end != nil && n.UpdatedAt > *end {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SortNotes orders notes in place: pinned before unpinned, then by opt. Ties keep input order.
func SortNotes(notes []Note, opt SortOption, loc Locale) {
	coll := loc.collator()
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		switch opt {
		case SortOldest:
			return a.UpdatedAt < b.UpdatedAt
		case SortAZ:
			return coll.CompareString(a.Title, b.Title) < 0
		case SortZA:
			return coll.CompareString(b.Title, a.Title) < 0
		default:
			return a.UpdatedAt > b.UpdatedAt
		}
	})
}

// VisibleNotes filters and sorts in one step.
func VisibleNotes(notes []Note, vs ViewState, loc Locale) []Note {
	out := FilterNotes(notes, vs, loc)
	SortNotes(out, vs.Sort, loc)
	return out
}

// SortCategories returns pinned categories first, then collated by name.
// A non-empty query keeps only names containing it, case-insensitively.
func SortCategories(categories []Category, query string, loc Locale) []Category {
	out := append([]Category(nil), categories...)
	coll := loc.collator()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	})
	if query == "" {
		return out
	}
	q := strings.ToLower(query)
	filtered := out[:0]
	for _, c := range out {
		if strings.Contains(strings.ToLower(c.Name), q) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Counters are the derived note counts shown next to each filter.
type Counters struct {
	All             int            `json:"all"`
	Uncategorized   int            `json:"uncategorized"`
	PerCategory     map[string]int `json:"perCategory"`
	UserNotes       int            `json:"userNotes"`
	CapacityPercent float64        `json:"capacityPercent"`
}

// CountNotes derives per-filter counts and the capacity gauge.
// "All" and the capacity gauge only count user notes (neither system nor welcome).
func CountNotes(notes []Note, categories []Category, maxNotes int) Counters {
	c := Counters{PerCategory: make(map[string]int, len(categories))}
	for _, cat := range categories {
		c.PerCategory[cat.Name] = 0
	}
	for _, n := range notes {
		if !n.IsSystem() {
			c.All++
		}
		if n.IsUncategorized() {
			c.Uncategorized++
		}
		for _, name := range n.Categories {
			if _, ok := c.PerCategory[name]; ok {
				c.PerCategory[name]++
			}
		}
	}
	c.UserNotes = c.All
	if maxNotes > 0 {
		c.CapacityPercent = float64(c.UserNotes) / float64(maxNotes) * 100
		if c.CapacityPercent > 100 {
			c.CapacityPercent = 100
		}
	}
	return c
}

// View bundles every derived collection for one ViewState.
type View struct {
	Notes      []Note     `json:"notes"`
	Categories []Category `json:"categories"`
	Counters   Counters   `json:"counters"`
}

// ComputeView derives the visible notes, ordered categories and counters.
func ComputeView(notes []Note, categories []Category, vs ViewState, maxNotes int, loc Locale) View {
	return View{
		Notes:      VisibleNotes(notes, vs, loc),
		Categories: SortCategories(categories, vs.CategorySearch, loc),
		Counters:   CountNotes(notes, categories, maxNotes),
	}
}

// View computes the derived view over a snapshot of the session.
// The privilege flag of vs is overridden by the session's own.
func (s *Service) View(vs ViewState, loc Locale) View {
	s.mu.RLock()
	notes := cloneNotes(s.notes)
	categories := append([]Category(nil), s.categories...)
	vs.Privileged = s.privileged
	s.mu.RUnlock()
	return ComputeView(notes, categories, vs, s.opts.limits.MaxNotes, loc)
}
