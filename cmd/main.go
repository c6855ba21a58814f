package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sysforge/burnin"
	"github.com/sysforge/burnin/flags"
	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/service"
	"github.com/sysforge/burnin/types"
)

var (
	Version   = "v0.3.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "burnin"
	app.Usage = "Hardware burn-in and stress test engine"
	app.Description = "burnin stresses CPU, memory, storage and network while watching thermals, and scores the machine's fitness"
	app.Flags = flags.GlobalFlags
	app.Commands = []*cli.Command{
		{
			Name:  "quick",
			Usage: "15-minute smoke test",
			Action: func(c *cli.Context) error {
				return run(c, types.QuickConfig())
			},
		},
		{
			Name:  "standard",
			Usage: "2-hour standard burn-in",
			Action: func(c *cli.Context) error {
				return run(c, types.DefaultConfig())
			},
		},
		{
			Name:  "full",
			Usage: "8-hour exhaustive burn-in",
			Action: func(c *cli.Context) error {
				return run(c, types.FullConfig())
			},
		},
		{
			Name:  "custom",
			Usage: "Burn-in with explicit parameters",
			Flags: flags.CustomFlags,
			Action: func(c *cli.Context) error {
				cfg, err := customConfig(c)
				if err != nil {
					return burnin.NewRuntimeError(err)
				}
				return run(c, cfg)
			},
		},
		{
			Name:   "hardware",
			Usage:  "Probe and display detected hardware",
			Action: showHardware,
		},
	}
	// Bare invocation runs the standard burn-in.
	app.Action = func(c *cli.Context) error {
		return run(c, types.DefaultConfig())
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if burnin.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), 2))
			} else if burnin.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), 1))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), 1))
			}
		}
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}

func newLogger(c *cli.Context) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	switch {
	case c.Bool(flags.Quiet.Name):
		log.SetLevel(logrus.ErrorLevel)
	case c.Bool(flags.Verbose.Name):
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func run(c *cli.Context, cfg *types.TestConfig) error {
	log := newLogger(c)

	if path := c.String(flags.ConfigFile.Name); path != "" {
		loaded, err := types.LoadConfig(path)
		if err != nil {
			return burnin.NewRuntimeError(err)
		}
		cfg = loaded
	}

	if c.Bool(flags.Metrics.Name) {
		svc := service.New(log)
		svc.Start(c.String(flags.MetricsAddr.Name))
		defer svc.Shutdown()
	}

	app, err := burnin.New(&burnin.Config{
		TestConfig: cfg,
		Log:        log,
		Format:     c.String(flags.Format.Name),
		OutputPath: c.String(flags.Output.Name),
		Verbose:    c.Bool(flags.Verbose.Name),
		Quiet:      c.Bool(flags.Quiet.Name),
		Optimize:   c.Bool(flags.Optimize.Name),
	})
	if err != nil {
		return err
	}

	_, err = app.Run()
	return err
}

// customConfig builds a TestConfig from the custom command's flags, starting
// from the standard defaults.
func customConfig(c *cli.Context) (*types.TestConfig, error) {
	cfg := types.DefaultConfig()

	cfg.Duration = c.Duration(flags.Duration.Name)
	cfg.StressLevel = c.Int(flags.StressLevel.Name)
	cfg.Threads = c.Int(flags.Threads.Name)
	cfg.CPUEnabled = !c.Bool(flags.NoCPU.Name)
	cfg.MemoryEnabled = !c.Bool(flags.NoMemory.Name)
	cfg.StorageEnabled = !c.Bool(flags.NoStorage.Name)
	cfg.NetworkEnabled = c.Bool(flags.Network.Name)
	cfg.ThermalEnabled = !c.Bool(flags.NoThermal.Name)
	cfg.ThermalMonitoring = cfg.ThermalEnabled
	cfg.StoragePaths = c.StringSlice(flags.StoragePaths.Name)
	cfg.NetworkHosts = c.StringSlice(flags.NetworkHosts.Name)
	cfg.ThermalWarningThreshold = c.Float64(flags.ThermalWarning.Name)
	cfg.ThermalCriticalThreshold = c.Float64(flags.ThermalCritical.Name)
	cfg.ThermalInterval = c.Duration(flags.ThermalInterval.Name)

	pct, err := memoryPercent(c.String(flags.MemorySize.Name))
	if err != nil {
		return nil, err
	}
	cfg.MemoryTestPercent = pct

	isPercent, size, err := types.ParseMemorySize(c.String(flags.StorageFileSize.Name))
	if err != nil {
		return nil, err
	}
	if isPercent {
		return nil, types.NewConfigError("file size must be an absolute size, not a percentage")
	}
	cfg.StorageFileSize = size

	return cfg, nil
}

// memoryPercent resolves the memory-size flag to a percentage of available
// memory, converting absolute sizes against the current machine.
func memoryPercent(s string) (int, error) {
	isPercent, value, err := types.ParseMemorySize(s)
	if err != nil {
		return 0, err
	}
	if isPercent {
		return int(value), nil
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, types.NewHardwareFailure("unable to query memory information")
	}
	pct := int(float64(value) / float64(vm.Available) * 100.0)
	if pct < 1 {
		pct = 1
	}
	if pct > 95 {
		pct = 95
	}
	return pct, nil
}

func showHardware(c *cli.Context) error {
	snap, err := hardware.Probe()
	if err != nil {
		return burnin.NewRuntimeError(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Component", "Details"})
	t.AppendRows([]table.Row{
		{"Host", fmt.Sprintf("%s (%s %s, kernel %s)",
			snap.System.Hostname, snap.System.OSName, snap.System.OSVersion, snap.System.KernelVersion)},
		{"CPU", fmt.Sprintf("%s (%s), %d physical / %d logical cores @ %.0f MHz",
			snap.CPU.ModelName, snap.CPU.Vendor, snap.CPU.PhysicalCores, snap.CPU.LogicalCores, snap.CPU.FrequencyMHz)},
		{"Memory", fmt.Sprintf("%s total, %s available",
			humanize.IBytes(snap.Memory.TotalBytes), humanize.IBytes(snap.Memory.AvailableBytes))},
	})
	if snap.Virtualization != types.VirtNone {
		t.AppendRow(table.Row{"Virtualization", string(snap.Virtualization)})
	}
	for _, d := range snap.StorageDevices {
		t.AppendRow(table.Row{"Storage", fmt.Sprintf("%s at %s (%s, %s)",
			d.Name, d.MountPoint, d.Filesystem, humanize.IBytes(d.SizeBytes))})
	}
	for _, s := range snap.ThermalSensors {
		t.AppendRow(table.Row{"Sensor", fmt.Sprintf("%s: %.1f°C", s.Name, s.CurrentCelsius)})
	}
	t.Render()
	return nil
}
