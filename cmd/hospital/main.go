package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"medilink/internal/config"
	"medilink/internal/events"
	"medilink/internal/gateway"
	"medilink/internal/hospital"
	"medilink/internal/httpx"
	kafkax "medilink/internal/kafka"
	"medilink/internal/logx"
	"medilink/internal/postgres"
	"medilink/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadHospital()
	log := logx.New(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	if err := postgres.ApplySchema(ctx, db, hospital.Schema); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCaseReported, 1024, log)
	prod.Start(ctx)

	// Repo & handler
	repo := hospital.NewRepo(db)
	router := httpx.NewRouter(log, "Hospital Service")
	h := &httpx.HospitalHandler{
		Repo:       repo,
		Rows:       repo.Store,
		Apotek:     gateway.NewClient(cfg.ApotekBaseURL, "apotek service", cfg.HTTPClientTimeout),
		Statistics: gateway.NewClient(cfg.StatisticsBaseURL, "statistics service", cfg.HTTPClientTimeout),
		Redis:      rdb,
		Producer:   prod,
		Service:    cfg.ServiceName,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	prod.WaitClosed()
}
