package core

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	res, err := SortRows(propertyTable(), propertyBinding, Ascending)
	if err != nil {
		t.Fatalf("SortRows error = %v", err)
	}

	s, err := Analyze(res)
	if err != nil {
		t.Fatalf("Analyze error = %v", err)
	}

	if s.Count != 4 || s.Dropped != 1 {
		t.Errorf("Count, Dropped = %d, %d, want 4, 1", s.Count, s.Dropped)
	}
	if s.Min != 0.5 || s.Max != 3 {
		t.Errorf("Min, Max = %v, %v, want 0.5, 3", s.Min, s.Max)
	}
	if math.Abs(s.Mean-2) > 1e-9 {
		t.Errorf("Mean = %v, want 2", s.Mean)
	}
	if math.Abs(s.Median-2.25) > 1e-9 {
		t.Errorf("Median = %v, want 2.25", s.Median)
	}
	if s.P90 < s.Median || s.P90 > s.Max {
		t.Errorf("P90 = %v, want between median and max", s.P90)
	}
	if s.Closest != "Elm Street" {
		t.Errorf("Closest = %q, want Elm Street", s.Closest)
	}
	if s.Farthest != "Maple Court" {
		t.Errorf("Farthest = %q, want Maple Court (first of the tie)", s.Farthest)
	}

	wantHoods := []NeighborhoodCount{
		{Neighborhood: "(none)", Count: 1},
		{Neighborhood: "South", Count: 1},
		{Neighborhood: "North", Count: 2},
	}
	if !reflect.DeepEqual(s.Neighborhoods, wantHoods) {
		t.Errorf("Neighborhoods = %+v, want %+v", s.Neighborhoods, wantHoods)
	}
}

func TestAnalyze_NoNeighborhoodBinding(t *testing.T) {
	res := &Result{Rows: []ResultRow{{Name: "A", Distance: 1}}}

	s, err := Analyze(res)
	if err != nil {
		t.Fatalf("Analyze error = %v", err)
	}
	if s.Neighborhoods != nil {
		t.Errorf("Neighborhoods = %+v, want nil", s.Neighborhoods)
	}
	if s.Closest != "A" || s.Farthest != "A" {
		t.Errorf("Closest, Farthest = %q, %q, want A, A", s.Closest, s.Farthest)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	if _, err := Analyze(&Result{}); !errors.Is(err, ErrNoMatchingRows) {
		t.Errorf("Analyze(empty) error = %v, want ErrNoMatchingRows", err)
	}
}
