package hardware

import (
	"math"

	"github.com/sysforge/burnin/types"
)

// OptimizeConfig adjusts a base configuration to the probed machine and
// returns the adjusted copy. The input config is not modified.
//
// Virtualized guests get a derated stress level (containers additionally
// lose thermal monitoring, which is meaningless inside a namespace), small
// machines get a smaller memory test footprint, and an unset thread count
// resolves to 75% of the logical cores, minimum one.
func OptimizeConfig(snap *types.HardwareSnapshot, base *types.TestConfig) *types.TestConfig {
	cfg := *base

	switch {
	case snap.Virtualization.IsContainer():
		cfg.StressLevel = derate(cfg.StressLevel, 0.7)
		cfg.ThermalMonitoring = false
	case snap.Virtualization != types.VirtNone:
		cfg.StressLevel = derate(cfg.StressLevel, 0.8)
	}

	availableGB := float64(snap.Memory.AvailableBytes) / (1 << 30)
	if availableGB < 2.0 {
		cfg.MemoryTestPercent = 50
	} else if availableGB < 8.0 && cfg.MemoryTestPercent > 70 {
		cfg.MemoryTestPercent = 70
	}

	if cfg.Threads == 0 {
		threads := int(math.Round(float64(snap.CPU.LogicalCores) * 0.75))
		if threads < 1 {
			threads = 1
		}
		cfg.Threads = threads
	}

	return &cfg
}

func derate(level int, factor float64) int {
	derated := int(math.Round(float64(level) * factor))
	if derated < 1 {
		return 1
	}
	return derated
}
