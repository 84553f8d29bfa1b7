package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sketchnoise/internal/persistence/indexdb"
)

// openIndex returns nil when indexing is disabled by flag or by
// SN_INDEX_BACKEND=none.
func openIndex(dataDir string, disable bool) (*indexdb.SQLiteIndex, error) {
	if disable {
		return nil, nil
	}
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("SN_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}
	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(indexPath(dataDir))
	default:
		return nil, fmt.Errorf("unsupported SN_INDEX_BACKEND: %s", backend)
	}
}

func indexPath(dataDir string) string {
	return filepath.Join(dataDir, "index", "renders.sqlite")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
