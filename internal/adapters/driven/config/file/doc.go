// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.contextguard.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable LLM prompt templates
package file

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the application directory inside the user's home.
const DirName = ".contextguard"

// DefaultDir returns ~/.contextguard.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}
