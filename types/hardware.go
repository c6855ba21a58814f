package types

// HardwareSnapshot is a read-only view of the machine under test, produced
// by the hardware-probe collaborator. The engine consumes it for display
// and config adjustment; it never mutates it.
type HardwareSnapshot struct {
	System         SystemInfo         `json:"system"`
	CPU            CPUInfo            `json:"cpu"`
	Memory         MemoryInfo         `json:"memory"`
	StorageDevices []StorageDevice    `json:"storage_devices"`
	ThermalSensors []ThermalSensor    `json:"thermal_sensors"`
	Virtualization VirtualizationKind `json:"virtualization,omitempty"`
}

type SystemInfo struct {
	Hostname      string `json:"hostname"`
	OSName        string `json:"os_name"`
	OSVersion     string `json:"os_version"`
	KernelVersion string `json:"kernel_version"`
}

type CPUInfo struct {
	ModelName     string  `json:"model_name"`
	Vendor        string  `json:"vendor"`
	PhysicalCores int     `json:"physical_cores"`
	LogicalCores  int     `json:"logical_cores"`
	FrequencyMHz  float64 `json:"frequency_mhz"`
}

type MemoryInfo struct {
	TotalBytes     uint64 `json:"total_bytes"`
	AvailableBytes uint64 `json:"available_bytes"`
}

type StorageDevice struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // hdd, ssd, nvme, unknown
	SizeBytes  uint64 `json:"size_bytes"`
	MountPoint string `json:"mount_point,omitempty"`
	Filesystem string `json:"filesystem,omitempty"`
}

type ThermalSensor struct {
	Name            string  `json:"name"`
	CurrentCelsius  float64 `json:"current_celsius"`
	CriticalCelsius float64 `json:"critical_celsius,omitempty"`
}

// VirtualizationKind identifies the container or hypervisor environment, if
// any, the machine is running under.
type VirtualizationKind string

const (
	VirtNone    VirtualizationKind = ""
	VirtKVM     VirtualizationKind = "kvm"
	VirtVMware  VirtualizationKind = "vmware"
	VirtXen     VirtualizationKind = "xen"
	VirtHyperV  VirtualizationKind = "hyperv"
	VirtDocker  VirtualizationKind = "docker"
	VirtLXC     VirtualizationKind = "lxc"
	VirtUnknown VirtualizationKind = "unknown"
)

// IsContainer reports whether the kind is an OS-level container rather than
// a full hypervisor.
func (v VirtualizationKind) IsContainer() bool {
	return v == VirtDocker || v == VirtLXC
}
