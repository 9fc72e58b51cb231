package workload

import (
	"fmt"
	"os"
	"path/filepath"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

var WlLogger = log.WithFields(log.Fields{"prefix": "workload"})

// Source produces the task lengths of one trial.
//
// Sources in trace mode ignore count and return the whole trace, so callers
// must size the workload from the returned slice, never from count.
type Source interface {
	Lengths(count int, rng *rand.Rand) ([]int64, error)
	// Fixed reports whether the workload size is dictated by the source.
	Fixed() bool
}

// parsed files are shared by every trial of a batch
var files = cache.New(cache.NoExpiration, 0)

func readFile(path, marker string) ([]int64, error) {
	key := marker + "|" + path
	if v, ok := files.Get(key); ok {
		return v.([]int64), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ls, err := ParseLengths(f, marker, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	files.SetDefault(key, ls)
	return ls, nil
}

// ResetCache drops all parsed dataset files.
func ResetCache() {
	files.Flush()
}

type SyntheticSource struct {
	gen *Generator
}

func NewSynthetic(gen *Generator) *SyntheticSource {
	return &SyntheticSource{gen: gen}
}

func (s *SyntheticSource) Lengths(count int, rng *rand.Rand) ([]int64, error) {
	return s.gen.Fill(make([]int64, 0, count), count, rng), nil
}

func (s *SyntheticSource) Fixed() bool { return false }

// DatasetSource reads Dir/Prefix<count>Ext and pads with synthetic lengths.
type DatasetSource struct {
	cfg config.Dataset
	gen *Generator
}

func NewDataset(cfg config.Dataset, gen *Generator) *DatasetSource {
	return &DatasetSource{cfg: cfg, gen: gen}
}

func (s *DatasetSource) Path(count int) string {
	return filepath.Join(s.cfg.Dir, fmt.Sprintf("%s%d%s", s.cfg.Prefix, count, s.cfg.Ext))
}

func (s *DatasetSource) Lengths(count int, rng *rand.Rand) ([]int64, error) {
	path := s.Path(count)

	all, err := readFile(path, s.cfg.CommentMarker)
	if err != nil {
		WlLogger.WithFields(log.Fields{
			"file":  path,
			"error": err,
		}).Info("dataset file not readable, using random lengths")
		return s.gen.Fill(make([]int64, 0, count), count, rng), nil
	}

	n := count
	if len(all) < n {
		n = len(all)
	}
	ls := make([]int64, n, count)
	copy(ls, all[:n])
	ls = s.gen.Fill(ls, count, rng)

	WlLogger.WithFields(log.Fields{
		"file":   path,
		"loaded": n,
		"padded": count - n,
	}).Debug("loaded dataset file")
	return ls, nil
}

func (s *DatasetSource) Fixed() bool { return false }

// TraceSource returns every value of a single trace file. A missing trace
// gives an empty workload.
type TraceSource struct {
	path   string
	marker string
}

func NewTrace(cfg config.Dataset) *TraceSource {
	return &TraceSource{path: cfg.TracePath, marker: cfg.CommentMarker}
}

func (s *TraceSource) Lengths(_ int, _ *rand.Rand) ([]int64, error) {
	ls, err := readFile(s.path, s.marker)
	if err != nil {
		WlLogger.WithFields(log.Fields{
			"file":  s.path,
			"error": err,
		}).Info("trace file not readable")
		return nil, nil
	}

	out := make([]int64, len(ls))
	copy(out, ls)
	WlLogger.WithFields(log.Fields{
		"file":  s.path,
		"tasks": len(out),
	}).Debug("loaded trace file")
	return out, nil
}

func (s *TraceSource) Fixed() bool { return true }

// New picks the source for the configured dataset mode.
func New(cfg *config.Config) (Source, error) {
	gen, err := NewGenerator(cfg.Synthetic)
	if err != nil {
		return nil, err
	}

	switch cfg.Dataset.Mode {
	case config.DatasetSynthetic:
		return NewSynthetic(gen), nil
	case config.DatasetFile:
		return NewDataset(cfg.Dataset, gen), nil
	case config.DatasetTrace:
		return NewTrace(cfg.Dataset), nil
	}
	return nil, errors.Wrapf(config.ErrInvalidConfig, "unknown dataset mode %q", cfg.Dataset.Mode)
}
