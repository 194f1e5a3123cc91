package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"portfolio-data/internal/model"
	"portfolio-data/internal/saver"
)

// writeRunReport persists the per-symbol outcome of the run so operators
// can inspect the last pass without scraping logs.
func writeRunReport(dir string, successList []string, failedList []SymbolFailure) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if len(successList) > 0 {
		sorted := append([]string(nil), successList...)
		sort.Strings(sorted)
		data, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, ".lastrun.success.json"), data, 0644); err != nil {
			return err
		}
	}
	if len(failedList) > 0 {
		data, err := json.MarshalIndent(failedList, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, ".lastrun.failed.json"), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// writeArchive saves the run's flat snapshot rows in the configured format:
// {dir}/{provider}/snapshots_{runid}.{ext}
func writeArchive(dir, providerName, runID string, rs saver.RowSaver, rows []*model.SnapshotRow) (string, error) {
	archiveDir := filepath.Join(dir, providerName)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", err
	}
	flat := make([]model.SnapshotRow, len(rows))
	for i, r := range rows {
		flat[i] = *r
	}
	path := filepath.Join(archiveDir, fmt.Sprintf("snapshots_%s.%s", runID, rs.Extension()))
	if err := rs.Save(flat, path); err != nil {
		return "", err
	}
	return path, nil
}
