package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aman-CERP/upgradecheck/internal/facts"
	"github.com/Aman-CERP/upgradecheck/internal/report"
)

const (
	// SafeOffsetBytes is the space GRUB2 needs before the first partition
	// to embed its core image.
	SafeOffsetBytes uint64 = 1024 * 1024

	// PartitionOffsetCheckName identifies the partition offset check.
	PartitionOffsetCheckName = "check_first_partition_offset"
)

const partitionOffsetSummary = "On the system booting by using BIOS, the in-place upgrade fails " +
	"when upgrading the GRUB2 bootloader if the boot disk's embedding area " +
	"does not contain enough space for the core image installation. " +
	"This results in a broken system, and can occur when the disk has been " +
	"partitioned manually, for example using the RHEL 6 fdisk utility.\n\n" +
	"The list of devices with small embedding area:\n%s."

// bootMigrationArticle describes moving /boot and the GRUB2 configuration to another drive.
const bootMigrationArticle = "https://cloudlinux.zendesk.com/hc/en-us/articles/14549594244508"

const partitionOffsetHint = "We recommend to perform a fresh installation of the target system " +
	"instead of performing the in-place upgrade.\n" +
	"Another possibility is to reformat the devices so that there is " +
	"at least %d kiB space before the first partition. If reformatting the drive is not possible, " +
	"consider migrating your /boot folder and grub2 configuration to another drive " +
	"(refer to " + bootMigrationArticle + "). " +
	"Note that this operation is not supported and does not have to be always possible."

// PartitionOffsetCheck inhibits the upgrade when a BIOS boot disk has too
// little room before its first partition for the GRUB2 core image.
type PartitionOffsetCheck struct {
	facts  facts.Provider
	logger *slog.Logger
}

// NewPartitionOffsetCheck creates the check over the given facts.
func NewPartitionOffsetCheck(provider facts.Provider, opts ...CheckOption) *PartitionOffsetCheck {
	cfg := newCheckConfig(opts)
	return &PartitionOffsetCheck{
		facts:  provider,
		logger: cfg.logger,
	}
}

// Name implements Check.
func (c *PartitionOffsetCheck) Name() string {
	return PartitionOffsetCheckName
}

// Run implements Check.
func (c *PartitionOffsetCheck) Run(_ context.Context, sink report.Sink) error {
	// s390x has no BIOS boot path.
	if c.facts.Architecture().Matches(facts.ArchS390X) {
		return nil
	}

	for _, fw := range c.facts.FirmwareFacts() {
		if fw.Firmware == facts.FirmwareEFI {
			return nil
		}
	}

	layouts := c.facts.GRUBDevicePartitionLayouts()
	for _, l := range layouts {
		if len(l.Partitions) == 0 {
			// Expected for GPT disks; only MBR layouts are of interest.
			c.logger.Debug("Skipping GRUB device without partitions", slog.String("device", l.Device))
		}
	}

	problematic := ProblematicGRUBDevices(layouts)
	if len(problematic) == 0 {
		return nil
	}

	lines := make([]string, len(problematic))
	for i, dev := range problematic {
		lines[i] = "- " + dev
	}

	return report.Create(sink,
		report.Source(PartitionOffsetCheckName),
		report.Title("Found GRUB devices with too little space reserved before the first partition"),
		report.Summary(fmt.Sprintf(partitionOffsetSummary, strings.Join(lines, "\n"))),
		report.Remediation(fmt.Sprintf(partitionOffsetHint, SafeOffsetBytes/1024)),
		report.WithSeverity(report.SeverityHigh),
		report.Tags(report.TagBoot),
		report.Flags(report.FlagInhibitor),
	)
}

// ProblematicGRUBDevices returns, in input order, the devices whose first
// partition starts below SafeOffsetBytes. Devices without partitions are
// ignored.
func ProblematicGRUBDevices(layouts []facts.GRUBDevicePartitionLayout) []string {
	var devices []string
	for _, l := range layouts {
		first, ok := firstPartition(l.Partitions)
		if !ok {
			continue
		}
		if first.StartOffset < SafeOffsetBytes {
			devices = append(devices, l.Device)
		}
	}
	return devices
}

// firstPartition returns the partition with the lowest start offset.
// Ties keep the earliest entry.
func firstPartition(parts []facts.Partition) (facts.Partition, bool) {
	if len(parts) == 0 {
		return facts.Partition{}, false
	}
	first := parts[0]
	for _, p := range parts[1:] {
		if p.StartOffset < first.StartOffset {
			first = p
		}
	}
	return first, true
}
