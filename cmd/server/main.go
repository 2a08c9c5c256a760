// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/sozercan/insight-mole/internal/config"
	"github.com/sozercan/insight-mole/internal/gateway"
	"github.com/sozercan/insight-mole/internal/llm"
	"github.com/sozercan/insight-mole/internal/logx"
	"github.com/sozercan/insight-mole/internal/server"
	"github.com/sozercan/insight-mole/internal/telemetry"
)

func main() {
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logx.Init(cfg.Log)

	tp, err := telemetry.NewTracerProvider(cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create tracer provider")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("tracer shutdown failed")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	llmProvider, err := llm.NewOpenAI(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create LLM provider")
	}

	gw := gateway.New(llmProvider,
		gateway.WithStrictSchema(cfg.Gateway.StrictSchema),
		gateway.WithMetrics(telemetry.NewMetrics(reg)),
		gateway.WithTracer(telemetry.Tracer()),
	)

	srv := server.New(cfg.Server, gw, reg)
	log.Info().Str("host", cfg.Server.Host).Str("port", cfg.Server.Port).Msg("starting server")
	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("server failed")
	}
}
