package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDefaultLabel(t *testing.T) {
	if got := DefaultLabel(1); got != "Point_1" {
		t.Fatalf("DefaultLabel(1) = %q, want Point_1", got)
	}
	if got := DefaultLabel(12); got != "Point_12" {
		t.Fatalf("DefaultLabel(12) = %q, want Point_12", got)
	}
}

func TestCoordinatesIsFinite(t *testing.T) {
	if !(Coordinates{X: 1, Y: -2, Z: 0}).IsFinite() {
		t.Fatalf("expected finite coordinates")
	}
	if (Coordinates{X: math.NaN()}).IsFinite() {
		t.Fatalf("NaN reported as finite")
	}
	if (Coordinates{Z: math.Inf(1)}).IsFinite() {
		t.Fatalf("+Inf reported as finite")
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		Origin: Coordinates{},
		Points: []Point{
			{Label: "Sensor A", Coordinates: Coordinates{X: 3.2, Y: 5.1, Z: 2}},
		},
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"origin":[0,0,0],"points":[{"label":"Sensor A","coordinates":[3.2,5.1,2]}]}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}
