package facts

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

// CurrentSchemaVersion is the schema version assumed for documents without one.
const CurrentSchemaVersion = "1.0.0"

// SupportedSchema is the range of facts schema versions this build understands.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

// LoadFile reads a facts document from path. YAML and JSON are both accepted.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, uerrors.New(uerrors.ErrCodeFactsNotFound, fmt.Sprintf("facts file not found: %s", path), err).
				WithSuggestion("Run the fact collector or point --facts at its output")
		}
		return nil, uerrors.New(uerrors.ErrCodeFactsNotFound, fmt.Sprintf("read facts file %s", path), err)
	}

	set, err := Parse(data)
	if err != nil {
		var ue *uerrors.UpgradeError
		if errors.As(err, &ue) {
			ue.WithDetail("path", path)
		}
		return nil, err
	}
	return set, nil
}

// Parse decodes a facts document and checks its schema version.
// A missing architecture defaults to the architecture of the running binary.
func Parse(data []byte) (*Set, error) {
	var set Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, uerrors.New(uerrors.ErrCodeFactsCorrupt, "parse facts document", err)
	}

	if set.SchemaVersion == "" {
		set.SchemaVersion = CurrentSchemaVersion
	}
	if err := checkSchema(set.SchemaVersion); err != nil {
		return nil, err
	}

	if set.Arch == "" {
		set.Arch = ArchitectureFromGOARCH(runtime.GOARCH)
	}

	for i, d := range set.GRUBDevices {
		if d.Device == "" {
			return nil, uerrors.New(uerrors.ErrCodeFactsCorrupt,
				fmt.Sprintf("grub_devices[%d]: device is required", i), nil)
		}
	}

	return &set, nil
}

func checkSchema(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return uerrors.New(uerrors.ErrCodeFactsSchema, fmt.Sprintf("invalid facts schema version %q", version), err)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return uerrors.InternalError("invalid supported schema constraint", err)
	}
	if !constraint.Check(v) {
		return uerrors.New(uerrors.ErrCodeFactsSchema,
			fmt.Sprintf("facts schema %s is not supported (want %s)", v, SupportedSchema), nil).
			WithSuggestion("Collect facts with a collector matching this upgradecheck release")
	}
	return nil
}
