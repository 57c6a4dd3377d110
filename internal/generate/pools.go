package generate

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/zeltlager-spelle/campsync/pkg/errors"
)

// LoadPools reads name pools from a YAML file. Pools missing from the file
// keep their built-in defaults, so a file can override just the villages.
func LoadPools(path string) (Pools, error) {
	pools := DefaultPools()

	data, err := os.ReadFile(path)
	if err != nil {
		return Pools{}, errors.WrapIO("read", path, err)
	}

	var overrides Pools
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Pools{}, errors.WrapParse("yaml", path, err)
	}

	if len(overrides.FirstNames) > 0 {
		pools.FirstNames = overrides.FirstNames
	}
	if len(overrides.LastNames) > 0 {
		pools.LastNames = overrides.LastNames
	}
	if len(overrides.Villages) > 0 {
		pools.Villages = overrides.Villages
	}
	if len(overrides.TeamNames) > 0 {
		pools.TeamNames = overrides.TeamNames
	}

	return pools, nil
}
