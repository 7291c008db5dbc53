// fmp-chat - интерактивный чат с инструментом "FMP Data".
//
// Ход рассуждения (вызовы инструментов, их длительность) показывается
// в окне чата через events.ChanEmitter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/MehdiZare/langchain-fmp-data/pkg/agent"
	"github.com/MehdiZare/langchain-fmp-data/pkg/app"
	"github.com/MehdiZare/langchain-fmp-data/pkg/events"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tui"
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
	theme := flag.String("theme", "default", "color scheme: default, light, dracula")
	flag.Parse()

	ctx, shutdown := utils.SignalContext(context.Background())
	defer shutdown()

	cfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		return err
	}
	// В TUI stderr занят экраном, поэтому лог только в файл.
	if err := app.InitLogger(cfg); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}

	emitter := events.NewChanEmitter(100, events.DropWhenFull())
	defer func() {
		emitter.Close()
		if n := emitter.Dropped(); n > 0 {
			utils.Warn("Chat events dropped", "count", n)
		}
	}()

	fmt.Println("Indexing FMP endpoints...")
	components, err := app.Initialize(ctx, cfg, cfgPath, agent.WithEmitter(emitter))
	if err != nil {
		return err
	}
	tool := components.Tool

	chat := tui.NewChat(ctx, tool.Run, emitter.Subscribe(), tui.Config{
		ModelName:     tool.Config().Model,
		Colors:        tui.GetColorScheme(*theme),
		ShowTimestamp: true,
		MaxMessages:   500,
		ThreadID:      string(tool.GetThreadID(false)),
		NewThread: func() string {
			return string(tool.GetThreadID(true))
		},
	})
	return chat.Run()
}
