package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "BURNIN"

func prefixEnvVars(name string) []string {
	return []string{fmt.Sprintf("%s_%s", EnvVarPrefix, name)}
}

var (
	Format = &cli.StringFlag{
		Name:    "format",
		Value:   "text",
		EnvVars: prefixEnvVars("FORMAT"),
		Usage:   "Report output format: text, json or csv",
	}
	Output = &cli.StringFlag{
		Name:    "output",
		Value:   "",
		EnvVars: prefixEnvVars("OUTPUT"),
		Usage:   "Write the suite report to this file instead of stdout (json/csv)",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to a YAML configuration file",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		EnvVars: prefixEnvVars("VERBOSE"),
		Usage:   "Emit per-test progress detail",
	}
	Quiet = &cli.BoolFlag{
		Name:    "quiet",
		EnvVars: prefixEnvVars("QUIET"),
		Usage:   "Suppress everything except the final report",
	}
	Metrics = &cli.BoolFlag{
		Name:    "metrics",
		EnvVars: prefixEnvVars("METRICS"),
		Usage:   "Serve prometheus metrics and a healthz probe during the run",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "0.0.0.0:7300",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Listen address for the prometheus metrics server",
	}
	Optimize = &cli.BoolFlag{
		Name:    "optimize",
		EnvVars: prefixEnvVars("OPTIMIZE"),
		Usage:   "Derate the configuration for the detected hardware before running",
	}

	Duration = &cli.DurationFlag{
		Name:    "duration",
		Value:   2 * time.Hour,
		EnvVars: prefixEnvVars("DURATION"),
		Usage:   "Total test duration (e.g. '2h', '30m')",
	}
	StressLevel = &cli.IntFlag{
		Name:    "stress-level",
		Value:   8,
		EnvVars: prefixEnvVars("STRESS_LEVEL"),
		Usage:   "Stress intensity from 1 (light) to 10 (maximum)",
	}
	Threads = &cli.IntFlag{
		Name:    "threads",
		Value:   0,
		EnvVars: prefixEnvVars("THREADS"),
		Usage:   "Worker thread count; 0 auto-detects from logical cores",
	}
	MemorySize = &cli.StringFlag{
		Name:    "memory-size",
		Value:   "80%",
		EnvVars: prefixEnvVars("MEMORY_SIZE"),
		Usage:   "Memory under test: a percentage ('80%') or absolute size ('4GiB')",
	}
	StoragePaths = &cli.StringSliceFlag{
		Name:    "storage-path",
		EnvVars: prefixEnvVars("STORAGE_PATH"),
		Usage:   "Directory to exercise for storage I/O (repeatable); empty auto-detects",
	}
	StorageFileSize = &cli.StringFlag{
		Name:    "file-size",
		Value:   "1GiB",
		EnvVars: prefixEnvVars("FILE_SIZE"),
		Usage:   "Size of the storage test file (e.g. '512MiB', '2GiB')",
	}
	NetworkHosts = &cli.StringSliceFlag{
		Name:    "network-host",
		EnvVars: prefixEnvVars("NETWORK_HOST"),
		Usage:   "host:port probe target for the network test (repeatable)",
	}

	NoCPU = &cli.BoolFlag{
		Name:    "no-cpu",
		EnvVars: prefixEnvVars("NO_CPU"),
		Usage:   "Disable the CPU stress test",
	}
	NoMemory = &cli.BoolFlag{
		Name:    "no-memory",
		EnvVars: prefixEnvVars("NO_MEMORY"),
		Usage:   "Disable the memory validation test",
	}
	NoStorage = &cli.BoolFlag{
		Name:    "no-storage",
		EnvVars: prefixEnvVars("NO_STORAGE"),
		Usage:   "Disable the storage I/O test",
	}
	Network = &cli.BoolFlag{
		Name:    "network",
		EnvVars: prefixEnvVars("NETWORK"),
		Usage:   "Enable the network test (off by default)",
	}
	NoThermal = &cli.BoolFlag{
		Name:    "no-thermal",
		EnvVars: prefixEnvVars("NO_THERMAL"),
		Usage:   "Disable thermal monitoring",
	}

	ThermalWarning = &cli.Float64Flag{
		Name:    "thermal-warning",
		Value:   80.0,
		EnvVars: prefixEnvVars("THERMAL_WARNING"),
		Usage:   "Warning temperature threshold in celsius",
	}
	ThermalCritical = &cli.Float64Flag{
		Name:    "thermal-critical",
		Value:   90.0,
		EnvVars: prefixEnvVars("THERMAL_CRITICAL"),
		Usage:   "Critical temperature threshold in celsius",
	}
	ThermalInterval = &cli.DurationFlag{
		Name:    "thermal-interval",
		Value:   5 * time.Second,
		EnvVars: prefixEnvVars("THERMAL_INTERVAL"),
		Usage:   "Sampling interval for thermal monitoring",
	}
)

// GlobalFlags apply to every command.
var GlobalFlags = []cli.Flag{
	Format,
	Output,
	ConfigFile,
	Verbose,
	Quiet,
	Metrics,
	MetricsAddr,
	Optimize,
}

// CustomFlags parameterize the custom command on top of the globals.
var CustomFlags = []cli.Flag{
	Duration,
	StressLevel,
	Threads,
	MemorySize,
	StoragePaths,
	StorageFileSize,
	NetworkHosts,
	NoCPU,
	NoMemory,
	NoStorage,
	Network,
	NoThermal,
	ThermalWarning,
	ThermalCritical,
	ThermalInterval,
}
