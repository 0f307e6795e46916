// Command ccbench exercises every engine in this module against a
// configurable workload and reports timing, the same role
// cmd/tempo-cli plays for the teacher's block-storage engine, scaled
// down to a single-binary benchmark over in-process containers.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/go-cc/containers/internal/log"
	"github.com/go-cc/containers/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file (optional)")
		workload    = flag.String("workload", "", "override config's workload")
		iterations  = flag.Int("n", 0, "override config's iteration count")
		reportStyle = flag.String("report", "", "override config's report style (table|plain)")
		metricsAddr = flag.String("metrics-addr", "", "override config's metrics listen address")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if *workload != "" {
		cfg.Workload = *workload
	}
	if *iterations != 0 {
		cfg.Iterations = *iterations
	}
	if *reportStyle != "" {
		cfg.ReportStyle = *reportStyle
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	base := log.New()
	logger := log.WithLevel(base, cfg.LogLevel)

	if cfg.MetricsAddr != "" {
		go func() {
			level.Info(logger).Log("msg", "serving metrics", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, metrics.Handler()); err != nil {
				level.Error(logger).Log("msg", "metrics server exited", "err", err)
			}
		}()
	}

	level.Info(logger).Log("msg", "starting benchmark run", "workload", cfg.Workload, "n", cfg.Iterations)
	rl := log.NewRateLimitedLogger(5, level.Debug(logger))
	results := runWorkload(rl, cfg.Workload, cfg.Iterations)

	switch cfg.ReportStyle {
	case "plain":
		renderPlain(results)
	default:
		renderTable(results)
	}
	return nil
}
