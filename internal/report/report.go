// Package report defines the diagnostic report produced by upgrade checks.
//
// A Report is assembled once through New or Create, validated at construction
// and never modified afterwards. Reports carrying FlagInhibitor block the upgrade.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

// Severity is the impact level of a report.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Tag groups a report under a domain category.
type Tag string

const (
	TagBoot           Tag = "BOOT"
	TagOSFacts        Tag = "OS_FACTS"
	TagAuthentication Tag = "AUTHENTICATION"
	TagSanity         Tag = "SANITY"
	TagUpgradeProcess Tag = "UPGRADE_PROCESS"
	TagRepository     Tag = "REPOSITORY"
)

var knownTags = map[Tag]bool{
	TagBoot:           true,
	TagOSFacts:        true,
	TagAuthentication: true,
	TagSanity:         true,
	TagUpgradeProcess: true,
	TagRepository:     true,
}

// Flag changes how the upgrade workflow treats a report.
type Flag string

// FlagInhibitor marks the upgrade as blocked.
const FlagInhibitor Flag = "INHIBITOR"

// Report is an immutable diagnostic report.
type Report struct {
	source      string
	title       string
	summary     string
	remediation string
	severity    Severity
	tags        []Tag
	flags       []Flag
}

// Source returns the name of the check that produced the report.
func (r Report) Source() string { return r.source }

// Title returns the one-line report title.
func (r Report) Title() string { return r.title }

// Summary returns the report body.
func (r Report) Summary() string { return r.summary }

// Remediation returns the operator hint, possibly empty.
func (r Report) Remediation() string { return r.remediation }

// Severity returns the report severity.
func (r Report) Severity() Severity { return r.severity }

// Tags returns a copy of the report tags.
func (r Report) Tags() []Tag { return slices.Clone(r.tags) }

// Flags returns a copy of the report flags.
func (r Report) Flags() []Flag { return slices.Clone(r.flags) }

// HasTag reports whether the report carries tag.
func (r Report) HasTag(tag Tag) bool { return slices.Contains(r.tags, tag) }

// IsInhibitor reports whether the report blocks the upgrade.
func (r Report) IsInhibitor() bool { return slices.Contains(r.flags, FlagInhibitor) }

// Key returns a stable identifier derived from the source and title.
func (r Report) Key() string {
	sum := sha256.Sum256([]byte(r.source + "\x00" + r.title))
	return hex.EncodeToString(sum[:])
}

// Option sets one field of a report under construction.
type Option func(*Report)

// Title sets the report title.
func Title(title string) Option {
	return func(r *Report) { r.title = title }
}

// Summary sets the report body.
func Summary(summary string) Option {
	return func(r *Report) { r.summary = summary }
}

// Remediation sets the operator hint.
func Remediation(hint string) Option {
	return func(r *Report) { r.remediation = hint }
}

// WithSeverity sets the report severity.
func WithSeverity(s Severity) Option {
	return func(r *Report) { r.severity = s }
}

// Tags appends domain tags; duplicates are dropped.
func Tags(tags ...Tag) Option {
	return func(r *Report) {
		for _, t := range tags {
			if !slices.Contains(r.tags, t) {
				r.tags = append(r.tags, t)
			}
		}
	}
}

// Flags appends flags; duplicates are dropped.
func Flags(flags ...Flag) Option {
	return func(r *Report) {
		for _, f := range flags {
			if !slices.Contains(r.flags, f) {
				r.flags = append(r.flags, f)
			}
		}
	}
}

// Source records the producing check.
func Source(name string) Option {
	return func(r *Report) { r.source = name }
}

// New assembles and validates a report.
// An invalid field set yields an ERR_401_REPORT_INVALID error and no report.
func New(opts ...Option) (Report, error) {
	var r Report
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (r Report) validate() error {
	var problems []string
	if strings.TrimSpace(r.title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(r.summary) == "" {
		problems = append(problems, "summary is required")
	}
	if !r.severity.Valid() {
		problems = append(problems, fmt.Sprintf("unknown severity %q", r.severity))
	}
	for _, t := range r.tags {
		if !knownTags[t] {
			problems = append(problems, fmt.Sprintf("unknown tag %q", t))
		}
	}
	for _, f := range r.flags {
		if f != FlagInhibitor {
			problems = append(problems, fmt.Sprintf("unknown flag %q", f))
		}
	}
	if len(problems) == 0 {
		return nil
	}

	err := uerrors.New(uerrors.ErrCodeReportInvalid, "invalid report: "+strings.Join(problems, "; "), nil)
	if r.title != "" {
		err = err.WithDetail("title", r.title)
	}
	return err
}

// Create builds a report and hands it to sink.
// Nothing reaches the sink when the report is invalid.
func Create(sink Sink, opts ...Option) error {
	r, err := New(opts...)
	if err != nil {
		return err
	}
	sink.Create(r)
	return nil
}
