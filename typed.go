package smartnotes

import (
	"github.com/aretw0/smartnotes/pkg/typed"
)

// Setting wraps a single preference key with a typed JSON codec.
type Setting[T any] = typed.Setting[T]

// NewSetting creates a typed accessor over any store's preference keys.
// Fallback is returned when the key is absent or no longer decodes.
func NewSetting[T any](store Store, key string, fallback T) *Setting[T] {
	return typed.NewSetting[T](store, key, fallback)
}
