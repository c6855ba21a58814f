package hardware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysforge/burnin/types"
)

func snapshotWith(virt types.VirtualizationKind, availableBytes uint64, logicalCores int) *types.HardwareSnapshot {
	return &types.HardwareSnapshot{
		CPU:            types.CPUInfo{LogicalCores: logicalCores},
		Memory:         types.MemoryInfo{AvailableBytes: availableBytes},
		Virtualization: virt,
	}
}

func TestOptimizeConfig_BareMetalUntouched(t *testing.T) {
	base := types.DefaultConfig()
	base.Threads = 4

	cfg := OptimizeConfig(snapshotWith(types.VirtNone, 16<<30, 8), base)
	assert.Equal(t, base.StressLevel, cfg.StressLevel)
	assert.Equal(t, 4, cfg.Threads)
	assert.True(t, cfg.ThermalMonitoring)

	// The input config is never mutated.
	assert.Equal(t, 4, base.Threads)
}

func TestOptimizeConfig_ContainerDerates(t *testing.T) {
	base := types.DefaultConfig() // stress level 8
	cfg := OptimizeConfig(snapshotWith(types.VirtDocker, 16<<30, 8), base)

	assert.Equal(t, 6, cfg.StressLevel) // round(8*0.7)
	assert.False(t, cfg.ThermalMonitoring)
}

func TestOptimizeConfig_VMDerates(t *testing.T) {
	base := types.DefaultConfig()
	cfg := OptimizeConfig(snapshotWith(types.VirtKVM, 16<<30, 8), base)

	assert.Equal(t, 6, cfg.StressLevel) // round(8*0.8)
	assert.True(t, cfg.ThermalMonitoring)
}

func TestOptimizeConfig_LowMemory(t *testing.T) {
	base := types.DefaultConfig() // 80% memory test

	cfg := OptimizeConfig(snapshotWith(types.VirtNone, 1<<30, 8), base)
	assert.Equal(t, 50, cfg.MemoryTestPercent)

	cfg = OptimizeConfig(snapshotWith(types.VirtNone, 4<<30, 8), base)
	assert.Equal(t, 70, cfg.MemoryTestPercent)

	cfg = OptimizeConfig(snapshotWith(types.VirtNone, 32<<30, 8), base)
	assert.Equal(t, 80, cfg.MemoryTestPercent)
}

func TestOptimizeConfig_AutoThreads(t *testing.T) {
	base := types.DefaultConfig()
	require.Equal(t, 0, base.Threads)

	cfg := OptimizeConfig(snapshotWith(types.VirtNone, 16<<30, 8), base)
	assert.Equal(t, 6, cfg.Threads) // round(8*0.75)

	cfg = OptimizeConfig(snapshotWith(types.VirtNone, 16<<30, 1), base)
	assert.Equal(t, 1, cfg.Threads)
}

func TestProbe(t *testing.T) {
	snap, err := Probe()
	require.NoError(t, err)

	assert.Greater(t, snap.CPU.LogicalCores, 0)
	assert.Greater(t, snap.Memory.TotalBytes, uint64(0))
}

func TestVirtualizationKind(t *testing.T) {
	assert.Equal(t, types.VirtNone, virtualizationKind("kvm", "host"))
	assert.Equal(t, types.VirtKVM, virtualizationKind("kvm", "guest"))
	assert.Equal(t, types.VirtDocker, virtualizationKind("docker", "guest"))
	assert.Equal(t, types.VirtNone, virtualizationKind("", "guest"))
	assert.Equal(t, types.VirtUnknown, virtualizationKind("exotic", "guest"))
}
