// Package platform decides whether a check applies to the running system.
package platform

import (
	"strings"

	"github.com/joho/godotenv"
)

// DefaultOSReleasePath is the standard location of the os-release file.
const DefaultOSReleasePath = "/etc/os-release"

// Capability reports whether the current system supports a check.
// Implementations must not log or have side effects.
type Capability interface {
	Applicable() bool
}

// CapabilityFunc adapts a function to the Capability interface.
type CapabilityFunc func() bool

// Applicable implements Capability.
func (f CapabilityFunc) Applicable() bool { return f() }

// Always is a Capability that always applies.
var Always Capability = CapabilityFunc(func() bool { return true })

// OSRelease holds the os-release fields the checks care about.
type OSRelease struct {
	ID        string
	IDLike    []string
	VersionID string
	Name      string
}

// ReadOSRelease parses an os-release file.
func ReadOSRelease(path string) (OSRelease, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return OSRelease{}, err
	}
	return OSRelease{
		ID:        strings.ToLower(env["ID"]),
		IDLike:    strings.Fields(strings.ToLower(env["ID_LIKE"])),
		VersionID: env["VERSION_ID"],
		Name:      env["NAME"],
	}, nil
}

// CloudLinux applies when the os-release file at path identifies CloudLinux.
// An unreadable file means the capability does not apply.
func CloudLinux(path string) Capability {
	return CapabilityFunc(func() bool {
		rel, err := ReadOSRelease(path)
		if err != nil {
			return false
		}
		return rel.ID == "cloudlinux"
	})
}
