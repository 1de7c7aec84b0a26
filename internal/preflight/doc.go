// Package preflight runs the pre-upgrade checks that decide whether an
// in-place major-version upgrade may proceed.
//
// Each Check consumes read-only facts or observes an external command and
// hands zero or more reports to a report.Sink. Reports flagged as inhibitors
// block the upgrade.
//
// The checks shipped here:
//   - PartitionOffsetCheck: BIOS boot disks need 1 MiB before the first
//     partition so GRUB2 can embed its core image
//   - ChannelSwitchCheck: moves a CloudLinux system to the CLN channel of the
//     target release before packages are downloaded
//
// Use the Runner to execute checks and inspect the outcome:
//
//	runner := preflight.New(preflight.WithOutput(os.Stdout))
//	results, err := runner.Run(ctx, checks...)
//	if runner.HasInhibitors(results) {
//	    // Upgrade is blocked
//	}
package preflight
