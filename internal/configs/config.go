package config

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	ResetBatch = "batch"
	ResetTrial = "trial"

	ModeDev  = "DEV"
	ModeProd = "PROD"
)

type Config struct {
	Mode       string     `yaml:"mode" mapstructure:"mode"`
	Experiment Experiment `yaml:"experiment" mapstructure:"experiment"`
	Dataset    Dataset    `yaml:"dataset" mapstructure:"dataset"`
	Synthetic  Synthetic  `yaml:"synthetic" mapstructure:"synthetic"`
	Topology   Topology   `yaml:"topology" mapstructure:"topology"`
	Task       TaskSpec   `yaml:"task" mapstructure:"task"`
	MOWS       MOWS       `yaml:"mows" mapstructure:"mows"`
	Executor   Executor   `yaml:"executor" mapstructure:"executor"`
	Output     Output     `yaml:"output" mapstructure:"output"`
	Store      Store      `yaml:"store" mapstructure:"store"`
	Server     Server     `yaml:"server" mapstructure:"server"`
}

type Experiment struct {
	Policies    []string `yaml:"policies" mapstructure:"policies"`
	TaskCounts  []int    `yaml:"task_counts" mapstructure:"task_counts"`
	Trials      int      `yaml:"trials" mapstructure:"trials"`
	Seed        uint64   `yaml:"seed" mapstructure:"seed"`
	CursorReset string   `yaml:"cursor_reset" mapstructure:"cursor_reset"`
	// trials run concurrently with per-trial random sources; changes numbers
	Parallel bool `yaml:"parallel" mapstructure:"parallel"`
	Workers  int  `yaml:"workers" mapstructure:"workers"`
}

type VMSpec struct {
	MIPS      float64 `yaml:"mips" mapstructure:"mips"`
	PEs       int     `yaml:"pes" mapstructure:"pes"`
	Bandwidth float64 `yaml:"bandwidth" mapstructure:"bandwidth"`
	RAM       string  `yaml:"ram" mapstructure:"ram"`
	Storage   string  `yaml:"storage" mapstructure:"storage"`
}

type Topology struct {
	Datacenters        int     `yaml:"datacenters" mapstructure:"datacenters"`
	HostsPerDatacenter int     `yaml:"hosts_per_datacenter" mapstructure:"hosts_per_datacenter"`
	VMsPerHost         int     `yaml:"vms_per_host" mapstructure:"vms_per_host"`
	PowerPerHost       float64 `yaml:"power_per_host" mapstructure:"power_per_host"`
	VM                 VMSpec  `yaml:"vm" mapstructure:"vm"`
}

type TaskSpec struct {
	FileSize   float64 `yaml:"file_size" mapstructure:"file_size"`
	OutputSize float64 `yaml:"output_size" mapstructure:"output_size"`
}

// MOWS holds the weights and normalisation maxima of the weighted
// multi-objective policy.
type MOWS struct {
	WPerformance   float64 `yaml:"w_performance" mapstructure:"w_performance"`
	WSecurity      float64 `yaml:"w_security" mapstructure:"w_security"`
	MaxTaskLength  float64 `yaml:"max_task_length" mapstructure:"max_task_length"`
	MaxVMCapacity  float64 `yaml:"max_vm_capacity" mapstructure:"max_vm_capacity"`
	MaxCommSize    float64 `yaml:"max_comm_size" mapstructure:"max_comm_size"`
	MaxVMBandwidth float64 `yaml:"max_vm_bandwidth" mapstructure:"max_vm_bandwidth"`
}

type Executor struct {
	StartDelay float64 `yaml:"start_delay" mapstructure:"start_delay"`
}

type Output struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	DetailFile  string `yaml:"detail_file" mapstructure:"detail_file"`
	SummaryFile string `yaml:"summary_file" mapstructure:"summary_file"`
	CPUProfile  string `yaml:"cpu_profile" mapstructure:"cpu_profile"`
	Trace       string `yaml:"trace" mapstructure:"trace"`
}

type Store struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type Server struct {
	HTTPPort     string `yaml:"http_port" mapstructure:"http_port"`
	LivenessPort string `yaml:"liveness_port" mapstructure:"liveness_port"`
}

// Default returns the configuration of the reference experiment: 6
// datacenters of 3 hosts with 3 VMs each, 10 trials per scenario and task
// counts 1000 to 10000.
func Default() *Config {
	counts := make([]int, 0, 10)
	for n := 1000; n <= 10000; n += 1000 {
		counts = append(counts, n)
	}

	return &Config{
		Mode: ModeDev,
		Experiment: Experiment{
			Policies:    []string{"mows", "round-robin"},
			TaskCounts:  counts,
			Trials:      10,
			Seed:        12345,
			CursorReset: ResetBatch,
		},
		Dataset: Dataset{
			Mode:          DatasetFile,
			Dir:           "datasets/randomStratified",
			Prefix:        "RandStratified",
			Ext:           ".txt",
			CommentMarker: ";",
		},
		Synthetic: Synthetic{
			Distribution: Uniform.String(),
			Min:          5000,
			Max:          20000,
			Mean:         12500,
			Std:          3000,
			Skew:         -4,
		},
		Topology: Topology{
			Datacenters:        6,
			HostsPerDatacenter: 3,
			VMsPerHost:         3,
			PowerPerHost:       200,
			VM: VMSpec{
				MIPS:      1000,
				PEs:       1,
				Bandwidth: 1000,
				RAM:       "512Mi",
				Storage:   "10000Mi",
			},
		},
		Task: TaskSpec{
			FileSize:   300,
			OutputSize: 300,
		},
		MOWS: MOWS{
			WPerformance:   0.7,
			WSecurity:      0.3,
			MaxTaskLength:  20000,
			MaxVMCapacity:  6000,
			MaxCommSize:    2000,
			MaxVMBandwidth: 5000,
		},
		Output: Output{
			Dir:         "outputs",
			DetailFile:  "mows_rr_experiment_details.csv",
			SummaryFile: "mows_rr_experiment_summary.csv",
		},
		Store: Store{
			Path: "outputs/runs.db",
		},
		Server: Server{
			HTTPPort:     "8080",
			LivenessPort: "50052",
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeProd {
		return invalid("unknown mode %q", c.Mode)
	}

	e := c.Experiment
	if len(e.Policies) == 0 {
		return invalid("no policies configured")
	}
	if e.Trials < 1 {
		return invalid("trials must be at least 1, got %d", e.Trials)
	}
	if e.CursorReset != ResetBatch && e.CursorReset != ResetTrial {
		return invalid("unknown cursor reset %q", e.CursorReset)
	}
	if e.Workers < 0 {
		return invalid("workers must not be negative")
	}

	switch c.Dataset.Mode {
	case DatasetSynthetic, DatasetFile:
		if len(e.TaskCounts) == 0 {
			return invalid("no task counts configured")
		}
		for _, n := range e.TaskCounts {
			if n <= 0 {
				return invalid("task count must be positive, got %d", n)
			}
		}
	case DatasetTrace:
		if c.Dataset.TracePath == "" {
			return invalid("trace mode needs a trace path")
		}
	default:
		return invalid("unknown dataset mode %q", c.Dataset.Mode)
	}

	s := c.Synthetic
	if _, err := ParseDistr(s.Distribution); err != nil {
		return err
	}
	if s.Min <= 0 || s.Max < s.Min {
		return invalid("synthetic range [%d, %d] is not a positive interval", s.Min, s.Max)
	}

	t := c.Topology
	if t.Datacenters <= 0 || t.HostsPerDatacenter <= 0 || t.VMsPerHost <= 0 {
		return invalid("topology sizes must be positive")
	}
	if t.VM.MIPS <= 0 || t.VM.Bandwidth <= 0 || t.VM.PEs <= 0 {
		return invalid("vm capacity must be positive")
	}
	if t.PowerPerHost < 0 {
		return invalid("power per host must not be negative")
	}

	m := c.MOWS
	if m.WPerformance < 0 || m.WSecurity < 0 || math.Abs(m.WPerformance+m.WSecurity-1) > 1e-9 {
		return invalid("mows weights %v and %v must be non-negative and sum to 1", m.WPerformance, m.WSecurity)
	}
	if m.MaxTaskLength <= 0 || m.MaxVMCapacity <= 0 || m.MaxCommSize <= 0 || m.MaxVMBandwidth <= 0 {
		return invalid("mows normalisation maxima must be positive")
	}

	if c.Executor.StartDelay < 0 {
		return invalid("executor start delay must not be negative")
	}
	return nil
}
