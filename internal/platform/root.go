package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDirName is the hidden directory holding a project-local session.
const DataDirName = ".smartnotes"

// ConfigFileName marks a directory configured for smartnotes.
const ConfigFileName = "smartnotes.yaml"

// FindRoot recursively looks upwards for a smartnotes root indicator:
// a .smartnotes directory or a smartnotes.yaml file.
// It returns the absolute path of the directory holding the indicator.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DataDirName) || hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
