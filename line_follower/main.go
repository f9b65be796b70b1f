package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"linefollow-core/utils"
)

func main() {
	var (
		scenPath  = flag.String("scenario", "line_follower/scenarios/demo_oval.json", "Scenario JSON file")
		csvPath   = flag.String("csv", "", "Write per-tick telemetry CSV to this path")
		chartPath = flag.String("chart", "", "Write telemetry chart PNG to this path")
		logPath   = flag.String("logfile", "line_follower.log", "Log file path")
		logLevel  = flag.String("log", "info", "trace|debug|info|warn|error|critical")
	)
	flag.Parse()

	log, err := utils.NewFileLogger(*logPath, utils.ParseLevel(*logLevel), true)
	if err != nil {
		_, _ = os.Stderr.WriteString("ERROR: cannot open log file: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Close()

	cfg := RunnerConfig{
		ScenarioPath: *scenPath,
		CSVPath:      *csvPath,
		ChartPath:    *chartPath,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := NewRunner(cfg, log)
	if err != nil {
		log.Critical("Startup failed: %v", err)
		os.Exit(1)
	}

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		log.Critical("Run failed: %v", err)
		os.Exit(1)
	}
}
