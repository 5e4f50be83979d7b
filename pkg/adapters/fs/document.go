package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/smartnotes/pkg/core"
)

// WriteDocument encodes doc into path atomically. The format follows the file extension.
func WriteDocument(path string, doc core.Document) error {
	format := core.FormatFromPath(path)
	_, err := replaceFile(path, 0644, func(w io.Writer) error {
		return core.EncodeDocument(w, doc, format)
	})
	return err
}

// ReadDocument decodes the export document at path. The format follows the file extension.
func ReadDocument(path string) (core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return core.DecodeDocument(f, core.FormatFromPath(path))
}
