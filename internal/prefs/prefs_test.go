package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shahar-caura/nephyra/internal/detect"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", "nephyra", "preferences.yaml"))
}

func facts() detect.Facts {
	return detect.Facts{
		CurrentKernel:    "6.9.1-arch1-1",
		PackageManager:   pkgmgr.Pacman,
		GPU:              kernel.GPUAMD,
		UseCases:         []string{"gaming", "dev"},
		HasNvidiaDriver:  false,
		HasAudioHardware: true,
	}
}

func TestLoad_MissingFileIsZero(t *testing.T) {
	s := setup(t)
	assert.Equal(t, Record{}, s.Load())
}

func TestLoad_MalformedFileIsZero(t *testing.T) {
	s := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("use_cases: [unterminated\n\t:::"), 0o644))

	assert.Equal(t, Record{}, s.Load())
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	s := setup(t)
	rec := Record{
		PreferredKernel:    "linux-lts",
		GPUType:            "intel",
		UseCases:           []string{"server"},
		ProblematicKernels: []string{"linux-zen"},
	}
	require.NoError(t, s.Save(rec))

	assert.Equal(t, rec, s.Load())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "preferred_kernel: linux-lts")
	assert.Contains(t, string(data), "gpu_type: intel")
	assert.Contains(t, string(data), "use_cases:")

	_, err = os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSave_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewStore(filepath.Join(blocker, "preferences.yaml"))
	assert.Error(t, s.Save(Record{GPUType: "amd"}))
}

func TestNewStore_DefaultPath(t *testing.T) {
	s := NewStore("")
	assert.Equal(t, DefaultPath(), s.Path())
	assert.Equal(t, "preferences.yaml", filepath.Base(s.Path()))
}

func TestMerge_SeedsFromDetection(t *testing.T) {
	var rec Record
	ctx := Merge(&rec, facts())

	assert.Equal(t, "amd", rec.GPUType)
	assert.Equal(t, []string{"gaming", "dev"}, rec.UseCases)

	assert.Equal(t, kernel.GPUAMD, ctx.GPU)
	assert.Equal(t, []string{"gaming", "dev"}, ctx.UseCases)
	assert.Equal(t, "6.9.1-arch1-1", ctx.CurrentKernel)
	assert.Equal(t, pkgmgr.Pacman, ctx.PackageManager)
	assert.True(t, ctx.HasAudioHardware)
}

func TestMerge_RecordOverridesDetection(t *testing.T) {
	rec := Record{GPUType: "intel", UseCases: []string{"server"}, ProblematicKernels: []string{"zen"}}
	f := facts()
	f.HasNvidiaDriver = true

	ctx := Merge(&rec, f)

	assert.Equal(t, kernel.GPUIntel, ctx.GPU)
	assert.Equal(t, []string{"server"}, ctx.UseCases)
	assert.Equal(t, []string{"zen"}, ctx.ProblematicKernels)
	assert.True(t, ctx.HasNvidiaDriver, "driver presence is always live")
}

func TestMerge_EmptyDetectionDefaultsToDesktop(t *testing.T) {
	var rec Record
	f := facts()
	f.UseCases = nil

	ctx := Merge(&rec, f)
	assert.Equal(t, []string{"desktop"}, ctx.UseCases)
	assert.Equal(t, []string{"desktop"}, rec.UseCases)
}

func TestMerge_Idempotent(t *testing.T) {
	var rec Record
	first := Merge(&rec, facts())
	snapshot := rec
	second := Merge(&rec, facts())

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, rec)
}

func TestMerge_StickyAcrossRuns(t *testing.T) {
	s := setup(t)

	rec := s.Load()
	Merge(&rec, facts())
	require.NoError(t, s.Save(rec))

	later := facts()
	later.GPU = kernel.GPUNvidia
	later.UseCases = []string{"desktop"}

	rec = s.Load()
	ctx := Merge(&rec, later)
	assert.Equal(t, kernel.GPUAMD, ctx.GPU)
	assert.Equal(t, []string{"gaming", "dev"}, ctx.UseCases)
}

func TestMerge_InvalidStoredGPUFallsBackToDetection(t *testing.T) {
	rec := Record{GPUType: "voodoo", UseCases: []string{"desktop"}}
	ctx := Merge(&rec, facts())
	assert.Equal(t, kernel.GPUAMD, ctx.GPU)
	assert.Equal(t, "amd", rec.GPUType, "bad value replaced so it is not saved back")
	assert.Equal(t, []string{"desktop"}, ctx.UseCases, "other fields untouched")
}

func TestMerge_StoredGPUCaseNormalized(t *testing.T) {
	rec := Record{GPUType: "Intel"}
	ctx := Merge(&rec, facts())
	assert.Equal(t, kernel.GPUIntel, ctx.GPU)
	assert.Equal(t, "intel", rec.GPUType)
}

func TestRecordEqual(t *testing.T) {
	rec := Record{GPUType: "amd", UseCases: []string{"dev"}}
	same := Record{GPUType: "amd", UseCases: []string{"dev"}}
	assert.True(t, rec.Equal(same))

	Merge(&same, facts())
	assert.True(t, rec.Equal(same), "merging a complete record changes nothing")

	var empty Record
	Merge(&empty, facts())
	assert.False(t, Record{}.Equal(empty))
}

func TestMarkAndUnmarkProblematic(t *testing.T) {
	var rec Record
	assert.True(t, rec.MarkProblematic("linux-zen"))
	assert.False(t, rec.MarkProblematic("linux-zen"))
	assert.False(t, rec.MarkProblematic("  "))
	assert.True(t, rec.MarkProblematic("linux-rt"))
	assert.Equal(t, []string{"linux-zen", "linux-rt"}, rec.ProblematicKernels)

	assert.True(t, rec.UnmarkProblematic("linux-zen"))
	assert.False(t, rec.UnmarkProblematic("linux-zen"))
	assert.Equal(t, []string{"linux-rt"}, rec.ProblematicKernels)
}

func TestSetUseCases(t *testing.T) {
	var rec Record
	rec.SetUseCases([]string{"Dev, gaming", "dev", " ", "server"})
	assert.Equal(t, []string{"dev", "gaming", "server"}, rec.UseCases)
}

func TestSetGPUType(t *testing.T) {
	var rec Record
	require.NoError(t, rec.SetGPUType("NVIDIA"))
	assert.Equal(t, "nvidia", rec.GPUType)

	require.Error(t, rec.SetGPUType("matrox"))
	assert.Equal(t, "nvidia", rec.GPUType)

	require.NoError(t, rec.SetGPUType(""))
	assert.Empty(t, rec.GPUType)
}
