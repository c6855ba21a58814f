// Package hardware probes the machine under test and produces the
// read-only snapshot the engine consumes for display and configuration
// adjustment.
package hardware

import (
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/sysforge/burnin/types"
)

// Probe collects a full hardware snapshot. Partial probe failures degrade
// the snapshot (missing sensors, empty device list) rather than failing the
// whole call; only a CPU or memory probe failure is an error, since nothing
// useful can be reported without them.
func Probe() (*types.HardwareSnapshot, error) {
	snap := &types.HardwareSnapshot{}

	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return nil, types.NewHardwareFailure("unable to query CPU information")
	}
	physical, _ := cpu.Counts(false)
	logical, _ := cpu.Counts(true)
	snap.CPU = types.CPUInfo{
		ModelName:     infos[0].ModelName,
		Vendor:        infos[0].VendorID,
		PhysicalCores: physical,
		LogicalCores:  logical,
		FrequencyMHz:  infos[0].Mhz,
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, types.NewHardwareFailure("unable to query memory information")
	}
	snap.Memory = types.MemoryInfo{
		TotalBytes:     vm.Total,
		AvailableBytes: vm.Available,
	}

	if hi, err := host.Info(); err == nil {
		snap.System = types.SystemInfo{
			Hostname:      hi.Hostname,
			OSName:        hi.Platform,
			OSVersion:     hi.PlatformVersion,
			KernelVersion: hi.KernelVersion,
		}
		snap.Virtualization = virtualizationKind(hi.VirtualizationSystem, hi.VirtualizationRole)
	}

	snap.StorageDevices = probeStorage()
	snap.ThermalSensors = ProbeSensors()

	return snap, nil
}

func probeStorage() []types.StorageDevice {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil
	}

	var devices []types.StorageDevice
	for _, p := range parts {
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}
		devices = append(devices, types.StorageDevice{
			Name:       p.Device,
			Type:       "unknown",
			SizeBytes:  usage.Total,
			MountPoint: p.Mountpoint,
			Filesystem: p.Fstype,
		})
	}
	return devices
}

// ProbeSensors returns the thermal sensors currently visible to the OS.
// Systems without sensor support return an empty slice, not an error.
func ProbeSensors() []types.ThermalSensor {
	stats, err := sensors.SensorsTemperatures()
	if err != nil {
		return nil
	}

	var out []types.ThermalSensor
	for _, s := range stats {
		out = append(out, types.ThermalSensor{
			Name:            s.SensorKey,
			CurrentCelsius:  s.Temperature,
			CriticalCelsius: s.Critical,
		})
	}
	return out
}

func virtualizationKind(system, role string) types.VirtualizationKind {
	if role != "guest" {
		return types.VirtNone
	}
	switch {
	case strings.Contains(system, "kvm"):
		return types.VirtKVM
	case strings.Contains(system, "vmware"):
		return types.VirtVMware
	case strings.Contains(system, "xen"):
		return types.VirtXen
	case strings.Contains(system, "hyperv"):
		return types.VirtHyperV
	case strings.Contains(system, "docker"):
		return types.VirtDocker
	case strings.Contains(system, "lxc"):
		return types.VirtLXC
	case system == "":
		return types.VirtNone
	default:
		return types.VirtUnknown
	}
}
