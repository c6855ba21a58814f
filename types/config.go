package types

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// TestConfig holds the per-run configuration shared by every workload.
// It is owned by the caller and treated as immutable during a run.
type TestConfig struct {
	Duration    time.Duration `yaml:"duration"`
	StressLevel int           `yaml:"stress_level"` // 1-10
	Threads     int           `yaml:"threads"`      // 0 = auto-detect

	CPUEnabled     bool `yaml:"cpu_enabled"`
	MemoryEnabled  bool `yaml:"memory_enabled"`
	StorageEnabled bool `yaml:"storage_enabled"`
	NetworkEnabled bool `yaml:"network_enabled"`
	ThermalEnabled bool `yaml:"thermal_enabled"`

	MemoryTestPercent int      `yaml:"memory_test_percent"` // % of available memory, 1-95
	StoragePaths      []string `yaml:"storage_paths"`       // empty = auto-detect
	StorageFileSize   uint64   `yaml:"storage_file_size"`   // bytes

	NetworkHosts []string `yaml:"network_hosts"` // host:port probe targets, empty = defaults

	ThermalMonitoring        bool          `yaml:"thermal_monitoring"`
	ThermalWarningThreshold  float64       `yaml:"thermal_warning_threshold"`  // celsius
	ThermalCriticalThreshold float64       `yaml:"thermal_critical_threshold"` // celsius
	ThermalInterval          time.Duration `yaml:"thermal_interval"`
}

const (
	MinDuration = time.Minute
	MaxDuration = 7 * 24 * time.Hour
)

// DefaultConfig returns the standard two-hour burn-in configuration.
func DefaultConfig() *TestConfig {
	return &TestConfig{
		Duration:                 2 * time.Hour,
		StressLevel:              8,
		Threads:                  0,
		CPUEnabled:               true,
		MemoryEnabled:            true,
		StorageEnabled:           true,
		NetworkEnabled:           false,
		ThermalEnabled:           true,
		MemoryTestPercent:        80,
		StorageFileSize:          1 << 30, // 1 GiB
		ThermalMonitoring:        true,
		ThermalWarningThreshold:  80.0,
		ThermalCriticalThreshold: 90.0,
		ThermalInterval:          5 * time.Second,
	}
}

// QuickConfig returns a 15-minute smoke-level configuration.
func QuickConfig() *TestConfig {
	cfg := DefaultConfig()
	cfg.Duration = 15 * time.Minute
	cfg.StressLevel = 6
	cfg.StorageFileSize = 512 << 20
	return cfg
}

// FullConfig returns the eight-hour exhaustive configuration.
func FullConfig() *TestConfig {
	cfg := DefaultConfig()
	cfg.Duration = 8 * time.Hour
	cfg.StressLevel = 9
	cfg.StorageFileSize = 2 << 30
	return cfg
}

// Validate checks the configuration for values the engine cannot honor.
func (c *TestConfig) Validate() error {
	if c.Duration < MinDuration {
		return NewConfigError(fmt.Sprintf("duration must be at least %s", MinDuration))
	}
	if c.Duration > MaxDuration {
		return NewConfigError(fmt.Sprintf("duration cannot exceed %s", MaxDuration))
	}
	if c.StressLevel < 1 || c.StressLevel > 10 {
		return NewConfigError("stress level must be between 1 and 10")
	}
	if c.Threads < 0 {
		return NewConfigError("thread count cannot be negative")
	}
	if c.MemoryTestPercent < 1 || c.MemoryTestPercent > 95 {
		return NewConfigError("memory test size must be between 1% and 95%")
	}
	if c.ThermalCriticalThreshold <= c.ThermalWarningThreshold {
		return NewConfigError("thermal critical threshold must exceed the warning threshold")
	}
	return nil
}

// EnabledDomains lists the enabled stress domains, in registration order.
func (c *TestConfig) EnabledDomains() []string {
	var domains []string
	if c.CPUEnabled {
		domains = append(domains, "cpu")
	}
	if c.MemoryEnabled {
		domains = append(domains, "memory")
	}
	if c.StorageEnabled {
		domains = append(domains, "storage")
	}
	if c.NetworkEnabled {
		domains = append(domains, "network")
	}
	if c.ThermalEnabled {
		domains = append(domains, "thermal")
	}
	return domains
}

// LoadConfig reads a YAML configuration file, applying defaults for any
// field the file does not set.
func LoadConfig(path string) (*TestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigErrorf("failed to read config file %s: %v", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigErrorf("failed to parse config file %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseMemorySize parses a memory sizing string: either a percentage of
// available memory ("80%") or an absolute size ("512MB", "2GiB"). It returns
// whether the value is a percentage along with the parsed number.
func ParseMemorySize(s string) (isPercent bool, value uint64, err error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		pct, perr := strconv.Atoi(strings.TrimSuffix(s, "%"))
		if perr != nil {
			return false, 0, NewConfigErrorf("invalid percentage: %s", s)
		}
		if pct < 1 || pct > 95 {
			return false, 0, NewConfigError("percentage must be between 1% and 95%")
		}
		return true, uint64(pct), nil
	}

	bytes, perr := humanize.ParseBytes(s)
	if perr != nil {
		return false, 0, NewConfigErrorf("invalid size format: %s", s)
	}
	return false, bytes, nil
}
