package preflight

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aman-CERP/upgradecheck/internal/cln"
	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
	"github.com/Aman-CERP/upgradecheck/internal/platform"
	"github.com/Aman-CERP/upgradecheck/internal/report"
)

const (
	// TargetChannel is the CLN channel version switched to before download.
	TargetChannel = 8

	// ChannelSwitchCheckName identifies the channel switch check.
	ChannelSwitchCheckName = "switch_cln_channel_download"
)

// ChannelSwitcher performs the channel switch. *cln.Switcher implements it.
type ChannelSwitcher interface {
	Switch(ctx context.Context, target int) cln.Outcome
}

// ChannelSwitchCheck switches a CloudLinux system to the target CLN channel
// so upgrade packages can be downloaded.
type ChannelSwitchCheck struct {
	gate     platform.Capability
	switcher ChannelSwitcher
	logger   *slog.Logger
}

// NewChannelSwitchCheck creates the check. It does nothing unless gate applies.
func NewChannelSwitchCheck(gate platform.Capability, switcher ChannelSwitcher, opts ...CheckOption) *ChannelSwitchCheck {
	cfg := newCheckConfig(opts)
	return &ChannelSwitchCheck{
		gate:     gate,
		switcher: switcher,
		logger:   cfg.logger,
	}
}

// Name implements Check.
func (c *ChannelSwitchCheck) Name() string {
	return ChannelSwitchCheckName
}

// Run implements Check. A command failure becomes an inhibiting report.
// A tool that cannot be started is logged and does not block the upgrade.
// Cancellation aborts the check with an error and reports nothing.
func (c *ChannelSwitchCheck) Run(ctx context.Context, sink report.Sink) error {
	if !c.gate.Applicable() {
		return nil
	}

	switch o := c.switcher.Switch(ctx, TargetChannel).(type) {
	case cln.Success:
		return nil

	case cln.CommandFailure:
		if o.Err != nil {
			c.logger.Warn("RHN command failed", slog.Group("details", uerrors.LogAttrs(o.Err)...))
		}
		return report.Create(sink,
			report.Source(ChannelSwitchCheckName),
			report.Title(fmt.Sprintf("Failed to switch CloudLinux Network channel from %d to %d.", TargetChannel-1, TargetChannel)),
			report.Summary(fmt.Sprintf(
				"Command %s failed with exit code %d."+
					" The most probable cause of that is a problem with this system's"+
					" CloudLinux Network registration.", o.Command, o.ExitCode)),
			report.Remediation("Check the state of this system's registration with 'rhn_check'."+
				" Attempt to re-register the system with 'rhnreg_ks --force'."),
			report.WithSeverity(report.SeverityHigh),
			report.Tags(report.TagOSFacts, report.TagAuthentication),
			report.Flags(report.FlagInhibitor),
		)

	case cln.EnvironmentFailure:
		attrs := []any{slog.String("error", o.Message)}
		if o.Err != nil {
			attrs = append(attrs, slog.Group("details", uerrors.LogAttrs(o.Err)...))
		}
		c.logger.Error("Could not call RHN command", attrs...)
		return nil

	case cln.Interrupted:
		return fmt.Errorf("channel switch interrupted during %s: %w", o.Command, o.Err)

	default:
		return fmt.Errorf("unexpected channel switch outcome %T", o)
	}
}
