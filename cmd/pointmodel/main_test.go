package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/signalsfoundry/origin-model/internal/logging"
	"github.com/signalsfoundry/origin-model/internal/observability"
	"github.com/signalsfoundry/origin-model/model"
)

func TestRunPrintsDistancesAndExport(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, "0,0,0", nil, logging.Noop()); err != nil {
		t.Fatalf("run error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("output lines = %d, want 3:\n%s", len(lines), out.String())
	}
	if lines[0] != "Sensor A | Distance: 6.3443" {
		t.Fatalf("line 1 = %q", lines[0])
	}
	if lines[1] != "Point_2 | Distance: 4.6098" {
		t.Fatalf("line 2 = %q", lines[1])
	}

	payload, ok := strings.CutPrefix(lines[2], "Exported model: ")
	if !ok {
		t.Fatalf("line 3 = %q, want export prefix", lines[2])
	}
	var snap struct {
		Origin []float64 `json:"origin"`
		Points []struct {
			Label       string    `json:"label"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"points"`
	}
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		t.Fatalf("decode export %q: %v", payload, err)
	}
	if len(snap.Origin) != 3 || len(snap.Points) != 2 {
		t.Fatalf("export = %+v", snap)
	}
	if snap.Points[1].Label != "Point_2" || snap.Points[1].Coordinates[2] != 4.5 {
		t.Fatalf("second point = %+v", snap.Points[1])
	}
}

func TestRunWithShiftedOrigin(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), &out, "-1, 0, 4.5", nil, logging.Noop()); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(out.String(), "Point_2 | Distance: 0.0000") {
		t.Fatalf("point at origin not at zero distance:\n%s", out.String())
	}
}

func TestRunRejectsBadOrigin(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, "1,2", nil, logging.Noop())
	if !errors.Is(err, model.ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}

	err = run(context.Background(), &out, "1,two,3", nil, logging.Noop())
	if !errors.Is(err, model.ErrCoercion) {
		t.Fatalf("err = %v, want ErrCoercion", err)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output on failure: %q", out.String())
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	collector, err := observability.NewModelCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewModelCollector: %v", err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), &out, "0,0,0", collector, logging.Noop()); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if got := testutil.ToFloat64(collector.Points); got != 2 {
		t.Fatalf("pointmodel_points = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.OriginUpdates); got != 1 {
		t.Fatalf("pointmodel_origin_updates_total = %v, want 1", got)
	}
}
