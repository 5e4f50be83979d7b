package core

import "strings"

// Reserved identifiers shared by the filter, count and cascade logic.
const (
	// SystemCategory marks announcement notes. It is never part of the category collection.
	SystemCategory = "Announcements"

	// UncategorizedLabel is the virtual "no categories" label. It is never stored.
	UncategorizedLabel = "Uncategorized"

	// WelcomeNoteID identifies the seeded welcome note.
	WelcomeNoteID = "welcome-note-id"

	// DefaultWelcomeTitle is the factory title of the welcome note.
	// An unmodified welcome note is never exported.
	DefaultWelcomeTitle = "Welcome to Smart Notes!"

	// DefaultNoteTitle is used when a note is created without a title.
	DefaultNoteTitle = "Untitled"

	// DefaultAuthor is used when neither the input nor the nickname preference names an author.
	DefaultAuthor = "User"
)

// Color is a symbolic tag drawn from a fixed palette.
type Color string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorAmber  Color = "amber"
	ColorYellow Color = "yellow"
	ColorLime   Color = "lime"
	ColorGreen  Color = "green"
	ColorCyan   Color = "cyan"
	ColorBlue   Color = "blue"
	ColorIndigo Color = "indigo"
	ColorViolet Color = "violet"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// Palette lists the twelve colors in chromatic order.
var Palette = []Color{
	ColorRed, ColorOrange, ColorAmber, ColorYellow, ColorLime, ColorGreen,
	ColorCyan, ColorBlue, ColorIndigo, ColorViolet, ColorPink, ColorGray,
}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// ParseColor accepts a palette name in any case.
func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// ThemeColor selects the accent color of the application.
type ThemeColor = Color

// ViewMode is the note list layout preference.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Category is a user-defined label. Its Name is the join key from notes.
type Category struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Color    Color  `json:"color" yaml:"color"`
	IsPinned bool   `json:"isPinned,omitempty" yaml:"isPinned,omitempty"`
}

// CategoryPatch is a partial category update. Nil fields are left untouched.
type CategoryPatch struct {
	Name     *string
	Color    *Color
	IsPinned *bool
}

// DefaultCategories is the collection used when the store has none.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Work", Color: ColorIndigo},
		{ID: "2", Name: "Personal", Color: ColorGreen},
		{ID: "3", Name: "Ideas", Color: ColorAmber},
		{ID: "4", Name: "Shopping", Color: ColorRed},
	}
}

// IsReservedName reports whether name collides with one of the virtual labels.
func IsReservedName(name string) bool {
	return strings.EqualFold(name, SystemCategory) || strings.EqualFold(name, UncategorizedLabel)
}

// NoteColor returns the color of the note's first category, or ColorNone.
func NoteColor(n Note, categories []Category) Color {
	if len(n.Categories) == 0 {
		return ColorNone
	}
	for _, c := range categories {
		if c.Name == n.Categories[0] {
			return c.Color
		}
	}
	return ColorNone
}

func findCategoryByName(categories []Category, name string) int {
	for i, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

func findCategoryByID(categories []Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func pinnedCount(categories []Category) int {
	n := 0
	for _, c := range categories {
		if c.IsPinned {
			n++
		}
	}
	return n
}
