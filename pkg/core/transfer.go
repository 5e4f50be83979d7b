package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the export/import file shape. Either list may be absent.
type Document struct {
	Notes      []Note     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Categories []Category `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Format is the serialization of a Document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension. JSON is the default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// EncodeDocument writes doc in the given format.
func EncodeDocument(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// DecodeDocument reads and validates a Document. Missing top-level keys decode as empty.
// Any decoding or structural failure is reported as ErrInvalidImportFormat.
func DecodeDocument(r io.Reader, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidImportFormat, err)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: empty document", ErrInvalidImportFormat)
	}

	for i, n := range doc.Notes {
		if strings.TrimSpace(n.ID) == "" {
			return Document{}, fmt.Errorf("%w: note #%d has no id", ErrInvalidImportFormat, i)
		}
	}
	for i, c := range doc.Categories {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			return Document{}, fmt.Errorf("%w: category #%d needs an id and a name", ErrInvalidImportFormat, i)
		}
	}
	return doc, nil
}

// ExportOptions selects what goes into an export.
type ExportOptions struct {
	Notes      bool
	Categories bool
}

// Export projects the collections into a Document.
// System notes are excluded without privilege; the welcome note is exported only
// once its title was changed from the factory default.
func (s *Service) Export(opts ExportOptions) Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc Document
	if opts.Notes {
		doc.Notes = []Note{}
		for _, n := range s.notes {
			if n.ID == WelcomeNoteID {
				if n.Title == DefaultWelcomeTitle {
					continue
				}
			} else if n.HasCategory(SystemCategory) && !s.privileged {
				continue
			}
			doc.Notes = append(doc.Notes, n.clone())
		}
	}
	if opts.Categories {
		doc.Categories = append([]Category{}, s.categories...)
	}
	return doc
}

// ImportPreview summarizes a document before it is merged.
type ImportPreview struct {
	Notes      int
	Categories int
	Authors    []string
}

// PreviewImport counts the entries of doc and lists its distinct authors in order of appearance.
func PreviewImport(doc Document) ImportPreview {
	p := ImportPreview{Notes: len(doc.Notes), Categories: len(doc.Categories)}
	seen := make(map[string]struct{})
	for _, n := range doc.Notes {
		if n.Author == "" {
			continue
		}
		if _, ok := seen[n.Author]; ok {
			continue
		}
		seen[n.Author] = struct{}{}
		p.Authors = append(p.Authors, n.Author)
	}
	return p
}

// ImportOutcome classifies a merge.
type ImportOutcome string

const (
	ImportNothing ImportOutcome = "nothing"
	ImportPartial ImportOutcome = "partial"
	ImportFull    ImportOutcome = "full"
)

// ImportReport counts the entries actually added by a merge.
type ImportReport struct {
	NotesAdded        int
	NotesSkipped      int
	CategoriesAdded   int
	CategoriesSkipped int
}

// Outcome reports whether nothing, part, or all of the document was merged.
func (r ImportReport) Outcome() ImportOutcome {
	added := r.NotesAdded + r.CategoriesAdded
	switch {
	case added == 0:
		return ImportNothing
	case r.NotesSkipped+r.CategoriesSkipped == 0:
		return ImportFull
	default:
		return ImportPartial
	}
}

// Import merges doc additively: existing entries are never overwritten or removed.
// A note is added when below capacity and its id is new; a category when below capacity
// and neither its id nor its (case-insensitive) name exists.
func (s *Service) Import(doc Document) ImportReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report ImportReport
	limits := s.opts.limits

	for _, n := range doc.Notes {
		if len(s.notes) >= limits.MaxNotes || s.indexOfNote(n.ID) >= 0 {
			report.NotesSkipped++
			continue
		}
		n = n.clone()
		n.Categories = normalizeCategories(n.Categories)
		s.notes = append(s.notes, n)
		report.NotesAdded++
	}

	for _, c := range doc.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if len(s.categories) >= limits.MaxCategories ||
			findCategoryByID(s.categories, c.ID) >= 0 ||
			findCategoryByName(s.categories, c.Name) >= 0 ||
			IsReservedName(c.Name) {
			report.CategoriesSkipped++
			continue
		}
		if !c.Color.Valid() {
			c.Color = ColorGray
		}
		if c.IsPinned && pinnedCount(s.categories) >= limits.MaxPinnedCategories {
			c.IsPinned = false
		}
		s.categories = append(s.categories, c)
		report.CategoriesAdded++
	}

	if report.NotesAdded > 0 {
		s.markDirty(dirtyNotes)
	}
	if report.CategoriesAdded > 0 {
		s.markDirty(dirtyCategories)
	}

	s.logger.Info("import merged",
		"notes_added", report.NotesAdded,
		"categories_added", report.CategoriesAdded,
		"outcome", report.Outcome(),
	)
	return report
}
