package preflight

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Aman-CERP/upgradecheck/internal/cln"
	"github.com/Aman-CERP/upgradecheck/internal/facts"
	"github.com/Aman-CERP/upgradecheck/internal/report"
)

// recordingHandler keeps every log record for later assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func (h *recordingHandler) atLevel(level slog.Level) []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

func newRecordingLogger() (*slog.Logger, *recordingHandler) {
	h := &recordingHandler{}
	return slog.New(h), h
}

// attrString returns the value of a top-level attribute, or "".
func attrString(r slog.Record, key string) string {
	var v string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			v = a.Value.String()
			return false
		}
		return true
	})
	return v
}

// groupString returns key inside the attribute group named group.
func groupString(r slog.Record, group, key string) string {
	var v string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != group || a.Value.Kind() != slog.KindGroup {
			return true
		}
		for _, inner := range a.Value.Group() {
			if inner.Key == key {
				v = inner.Value.String()
			}
		}
		return false
	})
	return v
}

type stubFacts struct {
	arch     facts.Architecture
	firmware []facts.FirmwareFacts
	layouts  []facts.GRUBDevicePartitionLayout
}

func (s stubFacts) Architecture() facts.Architecture { return s.arch }

func (s stubFacts) FirmwareFacts() []facts.FirmwareFacts { return s.firmware }

func (s stubFacts) GRUBDevicePartitionLayouts() []facts.GRUBDevicePartitionLayout {
	return s.layouts
}

type stubSwitcher struct {
	outcome cln.Outcome
	calls   []int
}

func (s *stubSwitcher) Switch(_ context.Context, target int) cln.Outcome {
	s.calls = append(s.calls, target)
	return s.outcome
}

// unknownOutcome is an Outcome from outside the cln package's set.
type unknownOutcome struct{ cln.Outcome }

type stubCheck struct {
	name    string
	reports [][]report.Option
	err     error
	ran     bool
}

func (c *stubCheck) Name() string { return c.name }

func (c *stubCheck) Run(_ context.Context, sink report.Sink) error {
	c.ran = true
	if c.err != nil {
		return c.err
	}
	for _, opts := range c.reports {
		if err := report.Create(sink, opts...); err != nil {
			return err
		}
	}
	return nil
}

// cancelingCheck cancels the run's context and fails the way an
// interrupted external command does.
type cancelingCheck struct {
	name   string
	cancel context.CancelFunc
}

func (c *cancelingCheck) Name() string { return c.name }

func (c *cancelingCheck) Run(ctx context.Context, _ report.Sink) error {
	c.cancel()
	<-ctx.Done()
	return ctx.Err()
}

func warning(title string) []report.Option {
	return []report.Option{
		report.Title(title),
		report.Summary("summary of " + title),
		report.WithSeverity(report.SeverityLow),
	}
}

func inhibitor(title string) []report.Option {
	return append(warning(title), report.WithSeverity(report.SeverityHigh), report.Flags(report.FlagInhibitor))
}

func layout(device string, offsets ...uint64) facts.GRUBDevicePartitionLayout {
	l := facts.GRUBDevicePartitionLayout{Device: device, Partitions: []facts.Partition{}}
	for _, o := range offsets {
		l.Partitions = append(l.Partitions, facts.Partition{StartOffset: o})
	}
	return l
}
