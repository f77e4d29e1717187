package internal

import (
	"embed"
	"io/fs"
	"strings"
)

// BuiltinAssets contains the default tenant configuration and the builtin
// scenario suites shipped with the binary
//
//go:embed builtin/tenants/*.yaml builtin/scenarios/*.yaml
var BuiltinAssets embed.FS

// DefaultTenantPath is the embedded path of the default tenant configuration
const DefaultTenantPath = "builtin/tenants/default.yaml"

// GetBuiltinAssetsFS returns the embedded filesystem containing builtin assets
func GetBuiltinAssetsFS() fs.FS {
	return BuiltinAssets
}

// ReadDefaultTenant returns the raw embedded default tenant configuration
func ReadDefaultTenant() ([]byte, error) {
	return BuiltinAssets.ReadFile(DefaultTenantPath)
}

// ListBuiltinScenarioSuites returns the paths of the embedded scenario suites
func ListBuiltinScenarioSuites() ([]string, error) {
	entries, err := BuiltinAssets.ReadDir("builtin/scenarios")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			files = append(files, "builtin/scenarios/"+entry.Name())
		}
	}

	return files, nil
}
