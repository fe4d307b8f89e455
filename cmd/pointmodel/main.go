package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/origin-model/internal/logging"
	"github.com/signalsfoundry/origin-model/internal/observability"
	"github.com/signalsfoundry/origin-model/kb"
	"github.com/signalsfoundry/origin-model/model"
	"go.opentelemetry.io/otel/attribute"
)

type samplePoint struct {
	x, y, z any
	label   string
}

// samples are the points added by the demonstration run.
var samples = []samplePoint{
	{x: 3.2, y: 5.1, z: 2.0, label: "Sensor A"},
	{x: -1.0, y: 0.0, z: 4.5},
}

func main() {
	origin := flag.String("origin", "0,0,0", "origin as comma-separated x,y,z")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics; empty disables it")
	hold := flag.Bool("hold", false, "keep serving metrics until interrupted")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Error(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	var collector *observability.ModelCollector
	var metricsSrv *http.Server
	if *metricsAddr != "" {
		collector, err = observability.NewModelCollector(prometheus.NewRegistry())
		if err != nil {
			log.Error(ctx, "failed to initialise metrics collector", logging.Error(err))
			os.Exit(1)
		}
		metricsSrv = serveMetrics(*metricsAddr, collector, log)
	}

	if err := run(ctx, os.Stdout, *origin, collector, log); err != nil {
		log.Error(ctx, "demo failed", logging.Error(err))
		os.Exit(1)
	}

	if *hold && metricsSrv != nil {
		stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-stopCtx.Done()
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// run builds a model at origin, adds the sample points and writes each
// point's distance followed by the exported model.
func run(ctx context.Context, w io.Writer, origin string, collector *observability.ModelCollector, log logging.Logger) error {
	ctx, span := observability.StartSpan(ctx, "pointmodel.demo", attribute.String("origin", origin))
	defer span.End()

	opts := []kb.Option{kb.WithLogger(log)}
	if collector != nil {
		opts = append(opts, kb.WithMetricsRecorder(collector))
	}
	m := kb.New(opts...)

	x, y, z, err := parseTriple(origin)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := m.SetOrigin(x, y, z); err != nil {
		span.RecordError(err)
		return err
	}

	for _, s := range samples {
		var popts []kb.PointOption
		if s.label != "" {
			popts = append(popts, kb.WithLabel(s.label))
		}
		if _, err := m.AddPoint(s.x, s.y, s.z, popts...); err != nil {
			span.RecordError(err)
			return err
		}
	}

	for _, p := range m.Points() {
		_, ps := observability.StartSpan(ctx, "pointmodel.distance", attribute.String("label", p.Label))
		d := m.DistanceFromOrigin(p)
		ps.SetAttributes(attribute.Float64("distance", d))
		ps.End()

		if _, err := fmt.Fprintf(w, "%s | Distance: %.4f\n", p.Label, d); err != nil {
			return err
		}
	}

	data, err := json.Marshal(m.Export())
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	_, err = fmt.Fprintf(w, "Exported model: %s\n", data)
	return err
}

func parseTriple(s string) (string, string, string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("origin %q: %w", s, model.ErrShape)
	}
	return parts[0], parts[1], parts[2], nil
}

func serveMetrics(addr string, collector *observability.ModelCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Error(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
