package soundingtable

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	pkgerrors "orb-service/pkg/errors"
)

// Point is one calibration entry: measured depth and the corresponding
// net volume for the tank.
type Point struct {
	DepthInches float64 `json:"depth_inches"`
	Gallons     float64 `json:"gallons"`
}

// Set holds the calibration tables for all tanks aboard, keyed by tank name.
type Set struct {
	tables map[string][]Point
}

// LoadFile reads calibration tables from a JSON file of the form
// {"Tank Name": [{"depth_inches": 0, "gallons": 0}, ...], ...}.
// Points are sorted by depth; each tank needs at least two points.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sounding tables: %w", err)
	}
	return Parse(data)
}

// Parse builds a Set from raw JSON.
func Parse(data []byte) (*Set, error) {
	var raw map[string][]Point
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sounding tables: %w", err)
	}

	tables := make(map[string][]Point, len(raw))
	for tank, points := range raw {
		if len(points) < 2 {
			return nil, fmt.Errorf("sounding table for tank %q needs at least 2 points, got %d", tank, len(points))
		}
		sorted := make([]Point, len(points))
		copy(sorted, points)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].DepthInches < sorted[j].DepthInches
		})
		for i := 1; i < len(sorted); i++ {
			if sorted[i].DepthInches == sorted[i-1].DepthInches {
				return nil, fmt.Errorf("sounding table for tank %q has duplicate depth %.2f", tank, sorted[i].DepthInches)
			}
		}
		tables[tank] = sorted
	}

	return &Set{tables: tables}, nil
}

// Tanks returns the tank names with a calibration table, sorted.
func (s *Set) Tanks() []string {
	names := make([]string, 0, len(s.tables))
	for tank := range s.tables {
		names = append(names, tank)
	}
	sort.Strings(names)
	return names
}

// HasTank reports whether a calibration table exists for the tank.
func (s *Set) HasTank(tank string) bool {
	_, ok := s.tables[tank]
	return ok
}

// Volume converts a sounding depth to net gallons for the tank by linear
// interpolation between calibration points. Depths outside the table are
// clamped to its ends; an unknown tank is a not-found error.
func (s *Set) Volume(tank string, depthInches float64) (float64, error) {
	points, ok := s.tables[tank]
	if !ok {
		return 0, pkgerrors.NewNotFoundError("sounding table", fmt.Sprintf("no sounding table for tank %q", tank))
	}

	if depthInches <= points[0].DepthInches {
		return points[0].Gallons, nil
	}
	last := points[len(points)-1]
	if depthInches >= last.DepthInches {
		return last.Gallons, nil
	}

	// First point with depth >= depthInches; lo is the segment start.
	hi := sort.Search(len(points), func(i int) bool {
		return points[i].DepthInches >= depthInches
	})
	lo := hi - 1

	span := points[hi].DepthInches - points[lo].DepthInches
	frac := (depthInches - points[lo].DepthInches) / span
	return points[lo].Gallons + frac*(points[hi].Gallons-points[lo].Gallons), nil
}
