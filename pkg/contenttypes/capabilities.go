package contenttypes

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinMenuIconVersion is the first host release accepting a menu icon.
const MinMenuIconVersion = "3.8"

var minMenuIcon = semver.MustParse(MinMenuIconVersion)

// Capabilities are host features resolved once from the host version.
type Capabilities struct {
	MenuIcon bool
}

// ResolveCapabilities derives Capabilities from a host version string. An
// unparseable version resolves to no optional capabilities.
func ResolveCapabilities(version string) Capabilities {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return Capabilities{}
	}
	return Capabilities{
		MenuIcon: !v.LessThan(minMenuIcon),
	}
}
