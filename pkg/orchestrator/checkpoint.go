package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// RunCheckpoint is the serializable state of one orchestrator run, enough to
// resume after an interruption (spec §4.8: "batch index, list of completed
// law ids, cumulative counters").
type RunCheckpoint struct {
	RunID           string          `json:"run_id"`
	BatchIndex      int             `json:"batch_index"`
	CompletedLawIds []lawdict.LawId `json:"completed_law_ids"`
	Counters        Counters        `json:"counters"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func checkpointPath(dir, runID string) string {
	return filepath.Join(dir, fmt.Sprintf("run-%s.json", runID))
}

// saveCheckpoint writes cp to dir by writing to a temporary file and
// renaming it over the final path, so a crash mid-write never leaves a
// truncated checkpoint behind (spec §9: "Checkpoints via durable write
// (write-temp, rename)").
func saveCheckpoint(dir string, cp RunCheckpoint) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating checkpoint directory %s: %w", dir, err)
	}

	cp.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}

	finalPath := checkpointPath(dir, cp.RunID)
	tmp, err := os.CreateTemp(dir, "checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp checkpoint file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp checkpoint file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp checkpoint file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming checkpoint into place: %w", err)
	}
	return nil
}

// loadLatestCheckpoint returns the most recently updated checkpoint under
// dir, or ok=false if none exist.
func loadLatestCheckpoint(dir string) (RunCheckpoint, bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return RunCheckpoint{}, false, nil
	}
	if err != nil {
		return RunCheckpoint{}, false, fmt.Errorf("reading checkpoint directory %s: %w", dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			candidates = append(candidates, filepath.Join(dir, e.Name()))
		}
	}
	if len(candidates) == 0 {
		return RunCheckpoint{}, false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		fi, _ := os.Stat(candidates[i])
		fj, _ := os.Stat(candidates[j])
		return fi.ModTime().After(fj.ModTime())
	})

	data, err := os.ReadFile(candidates[0])
	if err != nil {
		return RunCheckpoint{}, false, fmt.Errorf("reading checkpoint %s: %w", candidates[0], err)
	}
	var cp RunCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return RunCheckpoint{}, false, fmt.Errorf("parsing checkpoint %s: %w", candidates[0], err)
	}
	return cp, true, nil
}
