// fmp-agent - один запрос к инструменту "FMP Data" из командной строки.
//
// Использование:
//
//	fmp-agent "What is Apple's current P/E ratio?"
//	fmp-agent -format both -config config.yaml "Compare AAPL and MSFT revenue"
//	fmp-agent -trace-dir traces "AAPL news"    # JSON трейс шагов в traces/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/MehdiZare/langchain-fmp-data/pkg/agent"
	"github.com/MehdiZare/langchain-fmp-data/pkg/app"
	"github.com/MehdiZare/langchain-fmp-data/pkg/debug"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml")
	format := flag.String("format", "natural_language", "response format: natural_language, data_structure or both")
	timeout := flag.Duration("timeout", 2*time.Minute, "query timeout")
	verbose := flag.Bool("v", false, "log to stderr")
	modelName := flag.String("model", "", "model alias from models.definitions (default: models.default_chat)")
	traceDir := flag.String("trace-dir", "", "write a JSON trace of the run to this directory")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fmp-agent [flags] \"query\"")
		flag.PrintDefaults()
	}
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		flag.Usage()
		return fmt.Errorf("query is required")
	}
	responseFormat, err := agent.ParseResponseFormat(*format)
	if err != nil {
		return err
	}

	ctx, shutdown := utils.SignalContext(context.Background())
	defer shutdown()

	cfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		return err
	}
	if *verbose {
		utils.SetOutput(os.Stderr)
		utils.SetDebug(cfg.App.Debug)
	} else if err := app.InitLogger(cfg); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}

	if *modelName != "" {
		cfg.Models.DefaultChat = *modelName
	}

	var opts []agent.Option
	var recorder *debug.Recorder
	if *traceDir != "" {
		recorder, err = debug.NewRecorder(debug.RecorderConfig{
			LogsDir:            *traceDir,
			IncludeToolArgs:    true,
			IncludeToolResults: true,
			MaxResultSize:      4000,
		})
		if err != nil {
			return err
		}
		opts = append(opts, agent.WithEmitter(recorder))
	}

	components, err := app.Initialize(ctx, cfg, cfgPath, opts...)
	if err != nil {
		return err
	}

	res := app.Execute(ctx, components, agent.Input{Query: query, ResponseFormat: responseFormat}, *timeout)
	utils.Info("Query finished", "thread_id", res.ThreadID, "duration_ms", res.Duration.Milliseconds())

	if recorder != nil {
		path, err := recorder.Finalize(res.Duration)
		if err != nil {
			log.Printf("Warning: failed to save trace: %v", err)
		} else {
			fmt.Fprintf(os.Stderr, "Trace saved to %s\n", path)
		}
	}

	switch out := res.Output.(type) {
	case string:
		fmt.Println(out)
	default:
		raw, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(raw))
	}
	return nil
}
