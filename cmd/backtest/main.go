package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ZoneDCA/internal/app"
	"ZoneDCA/internal/collector"
	"ZoneDCA/internal/config"
	"ZoneDCA/internal/recorder"
	"ZoneDCA/internal/reporting"
	"ZoneDCA/pkg/logger"
)

func main() {
	var (
		cfgPath  string
		symbol   string
		budget   float64
		years    float64
		degree   int
		method   string
		tpZones  string
		csvDir   string
		asJSON   bool
		optimize bool
		mock     float64
		record   bool
	)

	flag.StringVar(&cfgPath, "config", "configs/config.yaml", "path to the YAML config")
	flag.StringVar(&symbol, "symbol", "", "symbol to simulate (default from config)")
	flag.Float64Var(&budget, "budget", 0, "total budget")
	flag.Float64Var(&years, "years", 0, "investment years; also sets the simulated window")
	flag.IntVar(&degree, "degree", 0, "polynomial degree of the regression curve")
	flag.StringVar(&method, "method", "", "fit method: enhanced | original")
	flag.StringVar(&tpZones, "tp", "", "active take-profit levels, e.g. 1,2,4 (default all)")
	flag.StringVar(&csvDir, "csv", "", "optional: write trades and lots CSV into this directory")
	flag.BoolVar(&asJSON, "json", false, "print the full result as JSON")
	flag.BoolVar(&optimize, "optimize", false, "sweep degrees instead of a single run")
	flag.Float64Var(&mock, "mock", 0, "use generated bars around this price instead of a live source")
	flag.BoolVar(&record, "record", false, "store the run in the configured SQLite database")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fail("load config: %v", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: true, Output: os.Stderr})

	if symbol != "" {
		cfg.DataSource.Symbol = symbol
	}
	if budget > 0 {
		cfg.Simulation.TotalBudget = budget
	}
	if years > 0 {
		cfg.Simulation.Years = years
	}
	if degree > 0 {
		cfg.Simulation.Degree = degree
	}
	if method != "" {
		cfg.Simulation.Method = method
	}
	if tpZones != "" {
		levels, err := config.ParseLevels(tpZones)
		if err != nil {
			fail("bad -tp: %v", err)
		}
		cfg.Simulation.ActiveTPZones = levels
	}
	if err := cfg.Validate(); err != nil {
		fail("config: %v", err)
	}

	fetcher := app.NewFetcher(cfg)
	if mock > 0 {
		fetcher = &collector.MockFetcher{Price: mock}
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if record {
		rec = app.NewRecorder(cfg, log)
	}
	defer rec.Close()
	svc := app.NewService(cfg, fetcher, rec, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if optimize {
		rep, err := svc.Optimize(ctx, cfg.DataSource.Symbol)
		if err != nil {
			fail("%v", err)
		}
		if asJSON {
			printJSON(rep)
			return
		}
		fmt.Printf("Degree sweep %s (%d..%d step %d)\n\n", rep.Symbol, cfg.Optimize.MinDegree, cfg.Optimize.MaxDegree, cfg.Optimize.Step)
		fmt.Printf("%-6s %10s %10s %6s %6s\n", "degree", "roi%", "return", "zone", "exits")
		for _, r := range rep.Results {
			fmt.Printf("%-6d %+10.2f %10.2f %6d %6d\n", r.Degree, r.ROIPct, r.TotalReturn, r.ZoneBuys, r.Sells)
		}
		for _, s := range rep.Skipped {
			fmt.Printf("%-6d skipped: %s\n", s.Degree, s.Reason)
		}
		fmt.Printf("\nBest degree: %d (%+.2f%%)\n", rep.BestDegree, rep.BestROIPct)
		return
	}

	out, err := svc.Run(ctx, cfg.DataSource.Symbol, "cli")
	if err != nil {
		fail("%v", err)
	}
	if asJSON {
		printJSON(out.Result)
	} else {
		fmt.Print(reporting.RenderMarkdown(out.Result))
	}

	if csvDir == "" {
		csvDir = cfg.Report.CSVDir
	}
	if csvDir != "" {
		paths, err := reporting.SaveCSV(csvDir, out.Result)
		if err != nil {
			fail("write csv: %v", err)
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "wrote %s\n", p)
		}
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail("encode: %v", err)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
