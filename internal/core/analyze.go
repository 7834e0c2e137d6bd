package core

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// NeighborhoodCount is the number of result rows in one neighborhood.
type NeighborhoodCount struct {
	Neighborhood string `json:"neighborhood"`
	Count        int    `json:"count"`
}

// Summary describes the distances of a sorted result.
type Summary struct {
	Count         int                 `json:"count"`
	Dropped       int                 `json:"dropped"`
	Min           float64             `json:"min"`
	Max           float64             `json:"max"`
	Mean          float64             `json:"mean"`
	Median        float64             `json:"median"`
	P90           float64             `json:"p90"`
	Closest       string              `json:"closest"`
	Farthest      string              `json:"farthest"`
	Neighborhoods []NeighborhoodCount `json:"neighborhoods,omitempty"`
}

// Analyze summarizes a non-empty result.
func Analyze(r *Result) (*Summary, error) {
	if r.Len() == 0 {
		return nil, ErrNoMatchingRows
	}

	data := stats.Float64Data(r.Distances())
	s := &Summary{
		Count:   len(r.Rows),
		Dropped: r.Dropped,
	}

	var err error
	if s.Min, err = stats.Min(data); err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	if s.P90, err = stats.Percentile(data, 90); err != nil {
		return nil, fmt.Errorf("p90: %w", err)
	}

	// Ties go to the row listed first.
	for _, row := range r.Rows {
		if s.Closest == "" && row.Distance == s.Min {
			s.Closest = row.Name
		}
		if s.Farthest == "" && row.Distance == s.Max {
			s.Farthest = row.Name
		}
	}

	if r.Binding.Neighborhood != "" {
		s.Neighborhoods = countNeighborhoods(r.Rows)
	}
	return s, nil
}

func countNeighborhoods(rows []ResultRow) []NeighborhoodCount {
	var out []NeighborhoodCount
	at := make(map[string]int)
	for _, row := range rows {
		key := row.Neighborhood
		if key == "" {
			key = "(none)"
		}
		i, ok := at[key]
		if !ok {
			i = len(out)
			at[key] = i
			out = append(out, NeighborhoodCount{Neighborhood: key})
		}
		out[i].Count++
	}
	return out
}
