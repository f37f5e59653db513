// Package prefs persists the user's kernel preferences and merges them over
// live detection.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shahar-caura/nephyra/internal/detect"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"gopkg.in/yaml.v3"
)

// Record is the persisted preference document.
type Record struct {
	PreferredKernel    string   `yaml:"preferred_kernel,omitempty"`
	GPUType            string   `yaml:"gpu_type,omitempty"`
	UseCases           []string `yaml:"use_cases"`
	ProblematicKernels []string `yaml:"problematic_kernels,omitempty"`
}

// DefaultPath returns <user config dir>/nephyra/preferences.yaml.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nephyra", "preferences.yaml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "nephyra", "preferences.yaml")
}

// Store reads and writes one Record file.
type Store struct {
	path string
}

// NewStore creates a Store at path, or DefaultPath when path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the record file location.
func (s *Store) Path() string { return s.path }

// Load reads the record. Missing, unreadable or malformed files yield the
// zero record.
func (s *Store) Load() Record {
	var rec Record
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Record{}
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}
	}
	return rec
}

// Save writes the record atomically, creating parent directories.
func (s *Store) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing preferences temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming preferences file: %w", err)
	}
	return nil
}

// Merge fills unset record fields from live detection and returns the fused
// context. A GPU type or use-case list already in the record wins over
// detection; an unrecognized stored GPU type counts as unset. Merging an
// already merged record is a no-op.
func Merge(rec *Record, f detect.Facts) kernel.Context {
	gpu, err := kernel.ParseGPUType(rec.GPUType)
	if err != nil || gpu == kernel.GPUNone {
		gpu = f.GPU
	}
	rec.GPUType = string(gpu)

	if len(rec.UseCases) == 0 {
		rec.UseCases = slices.Clone(f.UseCases)
	}
	if len(rec.UseCases) == 0 {
		rec.UseCases = []string{kernel.UseDesktop}
	}

	return kernel.Context{
		CurrentKernel:      f.CurrentKernel,
		PackageManager:     f.PackageManager,
		GPU:                gpu,
		UseCases:           slices.Clone(rec.UseCases),
		HasNvidiaDriver:    f.HasNvidiaDriver,
		HasAudioHardware:   f.HasAudioHardware,
		ProblematicKernels: slices.Clone(rec.ProblematicKernels),
	}
}

// Equal reports whether r and o hold the same values.
func (r Record) Equal(o Record) bool {
	return r.PreferredKernel == o.PreferredKernel &&
		r.GPUType == o.GPUType &&
		slices.Equal(r.UseCases, o.UseCases) &&
		slices.Equal(r.ProblematicKernels, o.ProblematicKernels)
}

// MarkProblematic adds name to the denylist. Returns false if already present.
func (r *Record) MarkProblematic(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(r.ProblematicKernels, name) {
		return false
	}
	r.ProblematicKernels = append(r.ProblematicKernels, name)
	return true
}

// UnmarkProblematic removes name from the denylist. Returns false if absent.
func (r *Record) UnmarkProblematic(name string) bool {
	i := slices.Index(r.ProblematicKernels, strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	r.ProblematicKernels = slices.Delete(r.ProblematicKernels, i, i+1)
	return true
}

// SetUseCases replaces the use-case list, normalizing case and dropping
// blanks and duplicates.
func (r *Record) SetUseCases(tags []string) {
	var out []string
	for _, t := range tags {
		for _, part := range strings.Split(t, ",") {
			p := strings.ToLower(strings.TrimSpace(part))
			if p != "" && !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	r.UseCases = out
}

// SetGPUType validates and stores a GPU type. An empty value clears the
// override so the next run re-detects.
func (r *Record) SetGPUType(s string) error {
	g, err := kernel.ParseGPUType(s)
	if err != nil {
		return err
	}
	r.GPUType = string(g)
	return nil
}
