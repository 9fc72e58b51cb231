package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func uniformGen(t *testing.T) *Generator {
	g, err := NewGenerator(config.Default().Synthetic)
	require.NoError(t, err)
	return g
}

func TestParseLengths(t *testing.T) {
	in := `; SDSC header
; more header

100
  200
abc
0.96
-5
1e12
300
`
	ls, err := ParseLengths(strings.NewReader(in), ";", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 2147483647, 300}, ls)
}

func TestParseLengthsLongLine(t *testing.T) {
	in := "100\n200\n" + strings.Repeat("x", 70000) + "\n300\n" + strings.Repeat("9", 80000) + "\n400"
	ls, err := ParseLengths(strings.NewReader(in), ";", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 300, 2147483647, 400}, ls)
}

func TestParseLengthsLimit(t *testing.T) {
	ls, err := ParseLengths(strings.NewReader("1\n2\n3\n4\n"), ";", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ls)
}

func TestUniformDrawInRange(t *testing.T) {
	g := uniformGen(t)
	rng := newRand()
	for i := 0; i < 10000; i++ {
		v := g.Draw(rng)
		require.GreaterOrEqual(t, v, int64(5000))
		require.LessOrEqual(t, v, int64(20000))
	}
}

func TestNonUniformDrawInRange(t *testing.T) {
	for _, d := range []string{"normal", "poisson", "skew-normal"} {
		t.Run(d, func(t *testing.T) {
			s := config.Default().Synthetic
			s.Distribution = d
			g, err := NewGenerator(s)
			require.NoError(t, err)

			rng := newRand()
			for i := 0; i < 1000; i++ {
				v := g.Draw(rng)
				require.GreaterOrEqual(t, v, s.Min)
				require.LessOrEqual(t, v, s.Max)
			}
		})
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	s := NewSynthetic(uniformGen(t))
	a, err := s.Lengths(50, newRand())
	require.NoError(t, err)
	b, err := s.Lengths(50, newRand())
	require.NoError(t, err)

	assert.Len(t, a, 50)
	assert.Equal(t, a, b)
}

func writeDataset(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestDatasetPadsShortFile(t *testing.T) {
	ResetCache()
	dir := t.TempDir()
	writeDataset(t, dir, "RandStratified5.txt", "7000\n\nbad\n8000\n")

	cfg := config.Default().Dataset
	cfg.Dir = dir
	s := NewDataset(cfg, uniformGen(t))

	ls, err := s.Lengths(5, newRand())
	require.NoError(t, err)
	require.Len(t, ls, 5)
	assert.Equal(t, []int64{7000, 8000}, ls[:2])
	for _, v := range ls[2:] {
		assert.GreaterOrEqual(t, v, int64(5000))
		assert.LessOrEqual(t, v, int64(20000))
	}
}

func TestDatasetStopsAtCount(t *testing.T) {
	ResetCache()
	dir := t.TempDir()
	writeDataset(t, dir, "RandStratified2.txt", "1\n2\n3\n")

	cfg := config.Default().Dataset
	cfg.Dir = dir
	ls, err := NewDataset(cfg, uniformGen(t)).Lengths(2, newRand())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ls)
}

func TestDatasetMissingFallsBack(t *testing.T) {
	ResetCache()
	cfg := config.Default().Dataset
	cfg.Dir = t.TempDir()

	s := NewDataset(cfg, uniformGen(t))
	ls, err := s.Lengths(20, newRand())
	require.NoError(t, err)
	assert.Len(t, ls, 20)

	// same draws as a purely synthetic source
	want, _ := NewSynthetic(uniformGen(t)).Lengths(20, newRand())
	assert.Equal(t, want, ls)
}

func TestTraceReturnsWholeFile(t *testing.T) {
	ResetCache()
	dir := t.TempDir()
	writeDataset(t, dir, "trace.txt", "; header\n10\n20.5\n0\n30\n")

	cfg := config.Default().Dataset
	cfg.Mode = config.DatasetTrace
	cfg.TracePath = filepath.Join(dir, "trace.txt")
	s := NewTrace(cfg)

	ls, err := s.Lengths(1000, newRand())
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, ls)
	assert.True(t, s.Fixed())
}

func TestTraceKeepsValuesAroundLongLine(t *testing.T) {
	ResetCache()
	dir := t.TempDir()
	writeDataset(t, dir, "trace.txt", "10\n"+strings.Repeat("junk", 20000)+"\n20\n")

	cfg := config.Default().Dataset
	cfg.TracePath = filepath.Join(dir, "trace.txt")

	ls, err := NewTrace(cfg).Lengths(0, newRand())
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, ls)
}

func TestTraceMissingIsEmpty(t *testing.T) {
	ResetCache()
	cfg := config.Default().Dataset
	cfg.TracePath = filepath.Join(t.TempDir(), "missing.txt")

	ls, err := NewTrace(cfg).Lengths(10, newRand())
	require.NoError(t, err)
	assert.Empty(t, ls)
}

func TestNewPicksMode(t *testing.T) {
	cfg := config.Default()

	s, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &DatasetSource{}, s)

	cfg.Dataset.Mode = config.DatasetSynthetic
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SyntheticSource{}, s)

	cfg.Dataset.Mode = "bogus"
	_, err = New(cfg)
	assert.Error(t, err)
}
