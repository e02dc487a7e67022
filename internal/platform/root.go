package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/internal/config"
)

// FindRoot looks upwards from startDir for a site root: a directory holding
// folio.yaml or .git. It returns the absolute path of the first one found.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, config.DefaultFile) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no site root above %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
