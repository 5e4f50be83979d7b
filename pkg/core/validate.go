package core

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// noteFields is the validated projection of a note under construction.
type noteFields struct {
	Title   string
	Content string
}

func validateNoteFields(title, content string, l Limits) error {
	f := noteFields{Title: title, Content: content}
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.RuneLength(0, l.MaxTitleLength)),
		validation.Field(&f.Content, validation.RuneLength(0, l.MaxContentLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// categoryFields is the validated projection of a category.
type categoryFields struct {
	Name  string
	Color Color
}

func paletteValues() []interface{} {
	out := make([]interface{}, len(Palette))
	for i, c := range Palette {
		out[i] = c
	}
	return out
}

func validateCategoryFields(name string, color Color, l Limits) error {
	f := categoryFields{Name: name, Color: color}
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, l.MaxCategoryNameLength)),
		validation.Field(&f.Color, validation.Required, validation.In(paletteValues()...)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if IsReservedName(name) {
		return fmt.Errorf("%q: %w", name, ErrReservedName)
	}
	return nil
}
