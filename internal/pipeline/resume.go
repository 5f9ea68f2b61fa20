package pipeline

import (
	"encoding/json"
	"os"
	"sort"
)

// ResumeEntry is one already-applied cluster: its stable identifier and
// the outcome recorded for it, so a later run over the same tree can skip
// clusters it already handled.
type ResumeEntry struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

// ResumeState is the resume file's full contents: an ordered list keyed by
// each cluster's stable ksuid (see clusterID), so a host can skip clusters
// it already applied on a prior run over the same tree.
type ResumeState struct {
	Entries []ResumeEntry `json:"entries"`
}

// LoadResumeState reads the resume file at path. A missing file is not an
// error; it reads as an empty ResumeState, the same as a fresh run.
func LoadResumeState(path string) (ResumeState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ResumeState{}, nil
	}
	if err != nil {
		return ResumeState{}, err
	}
	var state ResumeState
	if err := json.Unmarshal(data, &state); err != nil {
		return ResumeState{}, err
	}
	return state, nil
}

// Save writes the resume state to path as indented JSON, sorted by ID so
// the file diffs cleanly between runs.
func (s ResumeState) Save(path string) error {
	sorted := make([]ResumeEntry, len(s.Entries))
	copy(sorted, s.Entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	data, err := json.MarshalIndent(ResumeState{Entries: sorted}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Applied reports whether id is already recorded in the resume state.
func (s ResumeState) Applied(id string) bool {
	for _, e := range s.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// WithApplied returns a copy of s with id recorded against result, replacing
// any existing entry for id.
func (s ResumeState) WithApplied(id, result string) ResumeState {
	entries := make([]ResumeEntry, 0, len(s.Entries)+1)
	for _, e := range s.Entries {
		if e.ID != id {
			entries = append(entries, e)
		}
	}
	entries = append(entries, ResumeEntry{ID: id, Result: result})
	return ResumeState{Entries: entries}
}
