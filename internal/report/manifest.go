package report

import (
	"os"
	"path/filepath"
	"time"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/harness"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const ManifestName = "run.yaml"

// Manifest describes one experiment run next to its CSV files.
type Manifest struct {
	RunID     string         `yaml:"run_id"`
	Created   time.Time      `yaml:"created"`
	Seed      uint64         `yaml:"seed"`
	Trials    int            `yaml:"trials"`
	Parallel  bool           `yaml:"parallel"`
	Detail    string         `yaml:"detail"`
	Summary   string         `yaml:"summary"`
	Failures  []string       `yaml:"failures,omitempty"`
	Scenarios []SummaryRow   `yaml:"scenarios"`
	Config    *config.Config `yaml:"config"`
}

func WriteManifest(dir string, m Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", errors.Wrap(err, "marshaling manifest")
	}

	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}

func ReadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.Wrapf(err, "reading %s", path)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, errors.Wrapf(err, "parsing %s", path)
	}
	return m, nil
}

// Publish writes the detail and summary CSVs and the manifest of rep into
// dir.
func Publish(dir string, cfg *config.Config, rep *harness.Report, runID string) (Manifest, error) {
	detail, summary, err := WriteFiles(dir, cfg.Output.DetailFile, cfg.Output.SummaryFile, rep)
	if err != nil {
		return Manifest{}, err
	}

	m := Manifest{
		RunID:     runID,
		Created:   time.Now().UTC(),
		Seed:      rep.Seed,
		Trials:    rep.Trials,
		Parallel:  rep.Parallel,
		Detail:    detail,
		Summary:   summary,
		Scenarios: Summaries(rep),
		Config:    cfg,
	}
	for _, err := range rep.Failures() {
		m.Failures = append(m.Failures, err.Error())
	}

	if _, err := WriteManifest(dir, m); err != nil {
		return m, err
	}
	return m, nil
}
