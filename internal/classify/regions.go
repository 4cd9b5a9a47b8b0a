package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Region is a coarse bounding box for a named ocean basin.
type Region struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLon float64 `yaml:"min_lon"`
	MaxLon float64 `yaml:"max_lon"`
}

// DefaultRegions maps basin names to bounding boxes. The boxes are
// deliberately coarse; operators can override them with a YAML file.
func DefaultRegions() map[string]Region {
	return map[string]Region{
		"atlantic": {MinLat: -60, MaxLat: 70, MinLon: -80, MaxLon: 20},
		"pacific":  {MinLat: -60, MaxLat: 65, MinLon: 120, MaxLon: -70},
		"indian":   {MinLat: -60, MaxLat: 30, MinLon: 20, MaxLon: 120},
		"arctic":   {MinLat: 66, MaxLat: 90, MinLon: -180, MaxLon: 180},
		"southern": {MinLat: -90, MaxLat: -60, MinLon: -180, MaxLon: 180},
	}
}

// LoadRegions reads a region mapping from a YAML file.
func LoadRegions(path string) (map[string]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions file: %w", err)
	}

	regions := make(map[string]Region)
	if err := yaml.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("parse regions file: %w", err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("regions file %s defines no regions", path)
	}
	return regions, nil
}
