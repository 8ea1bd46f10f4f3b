package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahul/wayfarer/internal/auth"
	"github.com/rahul/wayfarer/internal/gateway"
	"github.com/rahul/wayfarer/internal/llm"
	"github.com/rahul/wayfarer/internal/observability"
	"github.com/rahul/wayfarer/internal/store"
	"github.com/rahul/wayfarer/internal/task"
	"github.com/rahul/wayfarer/internal/travel"
	"github.com/rahul/wayfarer/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	observability.PrintBanner()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.NewLogger()
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Model invocation layer: candidate models in priority order. An empty
	// list is valid and means every stage runs its deterministic fallback.
	candidates := llm.CandidatesFromConfig(ctx, cfg)
	if len(candidates) == 0 {
		log.Println("Warning: no LLM provider configured, stages will use deterministic fallbacks")
	}
	client := llm.NewClient(candidates, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second, logger, metrics)

	// Task registry: one Register call per task type.
	router := task.NewRouter(logger, metrics)
	if err := router.Register(travel.NewPipeline(client, logger, metrics)); err != nil {
		log.Fatal(err)
	}

	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	authSvc := auth.NewService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	httpGw := gateway.NewHTTPGateway(cfg.App.ListenAddr, router, st, authSvc, logger, metrics)

	gateways := []gateway.Gateway{httpGw}

	if tgCfg, ok := cfg.GetTelegramConfig(); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, router, logger)
		if err != nil {
			log.Printf("Warning: failed to initialize telegram gateway: %v", err)
		} else {
			gateways = append(gateways, tg)
		}
	}

	for _, gw := range gateways {
		go func(gw gateway.Gateway) {
			if err := gw.Start(); err != nil {
				log.Printf("Gateway error: %v", err)
				stop()
			}
		}(gw)
	}

	observability.PrintStartup(cfg.App.Name, cfg.App.ListenAddr, router.Types())

	<-ctx.Done()

	for _, gw := range gateways {
		if err := gw.Stop(); err != nil {
			log.Printf("Gateway shutdown error: %v", err)
		}
	}

	log.Println("Shutdown complete.")
}
