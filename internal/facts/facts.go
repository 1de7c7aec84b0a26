// Package facts models the machine facts consumed by upgrade checks.
//
// Facts are produced by an external collector, loaded once per run and
// treated as read-only by every check.
package facts

import "slices"

// Firmware is the boot firmware mode of the machine.
type Firmware string

const (
	FirmwareEFI  Firmware = "efi"
	FirmwareBIOS Firmware = "bios"
)

// FirmwareFacts describes how the machine boots.
type FirmwareFacts struct {
	Firmware Firmware `yaml:"firmware" json:"firmware"`
}

// Partition is one partition on a GRUB boot device.
type Partition struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// StartOffset is the partition start in bytes from the beginning of the disk.
	StartOffset uint64 `yaml:"start_offset" json:"start_offset"`
}

// GRUBDevicePartitionLayout lists the partitions of a disk GRUB is installed on.
type GRUBDevicePartitionLayout struct {
	Device     string      `yaml:"device" json:"device"`
	Partitions []Partition `yaml:"partitions" json:"partitions"`
}

// Architecture is the machine architecture as reported by uname.
type Architecture string

const (
	ArchX86_64  Architecture = "x86_64"
	ArchAArch64 Architecture = "aarch64"
	ArchPPC64LE Architecture = "ppc64le"
	ArchS390X   Architecture = "s390x"
)

// Matches reports whether a equals any of the given architectures.
func (a Architecture) Matches(archs ...Architecture) bool {
	return slices.Contains(archs, a)
}

// ArchitectureFromGOARCH maps a Go architecture name to the uname form.
// Unknown names are returned unchanged.
func ArchitectureFromGOARCH(goarch string) Architecture {
	switch goarch {
	case "amd64":
		return ArchX86_64
	case "arm64":
		return ArchAArch64
	case "ppc64le":
		return ArchPPC64LE
	case "s390x":
		return ArchS390X
	default:
		return Architecture(goarch)
	}
}

// Provider supplies the fact collections a check needs.
type Provider interface {
	Architecture() Architecture
	FirmwareFacts() []FirmwareFacts
	GRUBDevicePartitionLayouts() []GRUBDevicePartitionLayout
}

// Set is a loaded facts document. It implements Provider.
type Set struct {
	SchemaVersion string                      `yaml:"schema_version" json:"schema_version"`
	Arch          Architecture                `yaml:"architecture" json:"architecture"`
	Firmware      []FirmwareFacts             `yaml:"firmware" json:"firmware"`
	GRUBDevices   []GRUBDevicePartitionLayout `yaml:"grub_devices" json:"grub_devices"`
}

// Architecture implements Provider.
func (s *Set) Architecture() Architecture {
	return s.Arch
}

// FirmwareFacts implements Provider. The returned slice is a copy.
func (s *Set) FirmwareFacts() []FirmwareFacts {
	return slices.Clone(s.Firmware)
}

// GRUBDevicePartitionLayouts implements Provider. The returned layouts are deep copies.
func (s *Set) GRUBDevicePartitionLayouts() []GRUBDevicePartitionLayout {
	if s.GRUBDevices == nil {
		return nil
	}
	out := make([]GRUBDevicePartitionLayout, len(s.GRUBDevices))
	for i, d := range s.GRUBDevices {
		out[i] = GRUBDevicePartitionLayout{
			Device:     d.Device,
			Partitions: slices.Clone(d.Partitions),
		}
	}
	return out
}
