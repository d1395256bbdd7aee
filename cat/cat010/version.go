// cat/cat010/version.go
package cat010

import (
	"fmt"

	"github.com/kallerwest/trackfusion/asterix"
	"github.com/kallerwest/trackfusion/cat/cat010/uap"
)

// Version constants
const (
	Version105 = "1.05"
)

// NewUAP returns the UAP for the specified version of CAT010
func NewUAP(version string) (asterix.UAP, error) {
	switch version {
	case Version105:
		return uap.NewUAP105()
	default:
		return nil, fmt.Errorf("unsupported CAT010 version: %s", version)
	}
}

// LatestVersion returns the latest available version
func LatestVersion() string {
	return Version105
}

// AvailableVersions returns all supported versions
func AvailableVersions() []string {
	return []string{Version105}
}
