package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/vkmc/interaction"
)

type fakeRNG struct{ seed int64 }

func (f *fakeRNG) MarshalRNG() ([]byte, error) { return []byte{byte(f.seed)}, nil }
func (f *fakeRNG) UnmarshalRNG(b []byte) error { f.seed = int64(b[0]); return nil }

func TestSaveLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.bin")

	rec, err := New(42, []int{0, 1, 2}, [][3]float64{{1, 0, 0}, {0, 0, 0}}, 1.5, &fakeRNG{seed: 7})
	require.NoError(t, err)

	require.NoError(t, Save(path, rec))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, rec.RunID, loaded.RunID)
	require.Equal(t, 42, loaded.Step)
	require.Equal(t, []int{0, 1, 2}, loaded.State)
	require.Equal(t, 1.5, loaded.T)
	require.Equal(t, []byte{7}, loaded.RNGState)
}

func TestSave_NoTempFileLeftOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.bin")
	rec, err := New(0, []int{2, 0}, nil, 0, nil)
	require.NoError(t, err)
	require.NoError(t, Save(path, rec))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "ckpt.bin", entries[0].Name())
}

func TestLoad_CorruptFileIsErrCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ckpt.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestReconstruct_RebuildsOffFromState(t *testing.T) {
	tbl := &interaction.Tables{
		NumSites: []int{1},
		SupSites: [][]int{{0}},
		SpecOn:   [][]int{{1}},
		Energy:   []float64{3},
	}
	rec := Record{State: []int{1, 2, 0}}
	st, off, err := Reconstruct(tbl, rec, 2)
	require.NoError(t, err)
	require.Equal(t, 1, st.VacSite)
	require.Equal(t, []int{0}, off.Off)
	require.Equal(t, 3.0, off.Energy)
}
