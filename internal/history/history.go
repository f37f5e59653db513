// Package history persists one snapshot per recommendation run.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"gopkg.in/yaml.v3"
)

var runsDir = DefaultDir()

// SetDir overrides the snapshot directory. An empty dir restores the default.
func SetDir(dir string) {
	if dir == "" {
		dir = DefaultDir()
	}
	runsDir = dir
}

// Dir returns the snapshot directory.
func Dir() string { return runsDir }

// DefaultDir returns $XDG_STATE_HOME/nephyra/runs, falling back to
// ~/.local/state/nephyra/runs.
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "nephyra", "runs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".nephyra", "runs")
	}
	return filepath.Join(home, ".local", "state", "nephyra", "runs")
}

// Entry is one recommended kernel as shown at the time of the run.
type Entry struct {
	Name        string `yaml:"name"`
	Variant     string `yaml:"variant"`
	Score       int    `yaml:"score"`
	Installed   bool   `yaml:"installed,omitempty"`
	Explanation string `yaml:"explanation"`
}

// Snapshot is the persisted record of one recommendation run.
type Snapshot struct {
	ID             string    `yaml:"id"`
	CreatedAt      time.Time `yaml:"created_at"`
	CurrentKernel  string    `yaml:"current_kernel"`
	PackageManager string    `yaml:"package_manager"`
	GPU            string    `yaml:"gpu,omitempty"`
	UseCases       []string  `yaml:"use_cases"`
	Candidates     int       `yaml:"candidates"`

	Recommendations []Entry `yaml:"recommendations"`
}

// NewID returns a sortable run id: a UTC timestamp plus a short random suffix.
func NewID(now time.Time) string {
	return now.UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}

// New builds a snapshot of the top n ranked candidates.
func New(ctx kernel.Context, ranked []kernel.Scored, n int) *Snapshot {
	now := time.Now()
	s := &Snapshot{
		ID:             NewID(now),
		CreatedAt:      now,
		CurrentKernel:  ctx.CurrentKernel,
		PackageManager: ctx.PackageManager.String(),
		GPU:            string(ctx.GPU),
		UseCases:       ctx.UseCases,
		Candidates:     len(ranked),
	}
	for _, sc := range kernel.Top(ranked, n) {
		s.Recommendations = append(s.Recommendations, Entry{
			Name:        sc.Candidate.Name,
			Variant:     string(sc.Candidate.Variant),
			Score:       sc.Score,
			Installed:   sc.Candidate.Installed,
			Explanation: sc.Explanation,
		})
	}
	return s
}

// Load reads a snapshot from <dir>/<id>.yaml.
func Load(id string) (*Snapshot, error) {
	return LoadFile(filepath.Join(runsDir, id+".yaml"))
}

// LoadFile reads a snapshot from an arbitrary file path.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %q: %w", path, err)
	}

	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot %q: %w", path, err)
	}
	return &s, nil
}

// Save writes the snapshot atomically to <dir>/<id>.yaml.
func (s *Snapshot) Save() error {
	if err := os.MkdirAll(runsDir, 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	dest := filepath.Join(runsDir, s.ID+".yaml")
	tmp := dest + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp snapshot file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming snapshot file: %w", err)
	}
	return nil
}

// List returns all snapshots sorted by created_at descending. Unreadable or
// corrupt files are skipped.
func List() ([]*Snapshot, error) {
	entries, err := filepath.Glob(filepath.Join(runsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	var runs []*Snapshot
	for _, path := range entries {
		s, err := LoadFile(path)
		if err != nil {
			continue
		}
		runs = append(runs, s)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// Cleanup deletes snapshots created before now minus retention.
// Returns the number of files deleted.
func Cleanup(retention time.Duration) (int, error) {
	entries, err := filepath.Glob(filepath.Join(runsDir, "*.yaml"))
	if err != nil {
		return 0, fmt.Errorf("listing snapshots for cleanup: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0
	for _, path := range entries {
		s, err := LoadFile(path)
		if err != nil {
			continue
		}
		if s.CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(path); err == nil {
			deleted++
		}
	}
	return deleted, nil
}
