package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"uniagendas/internal/admin"
	appointmenthandler "uniagendas/internal/appointment/handler"
	appointmentmetrics "uniagendas/internal/appointment/metrics"
	appointmentservice "uniagendas/internal/appointment/service"
	appointmentstore "uniagendas/internal/appointment/store"
	doctorhandler "uniagendas/internal/doctor/handler"
	doctormetrics "uniagendas/internal/doctor/metrics"
	doctorservice "uniagendas/internal/doctor/service"
	doctorstore "uniagendas/internal/doctor/store"
	patienthandler "uniagendas/internal/patient/handler"
	patientmetrics "uniagendas/internal/patient/metrics"
	patientservice "uniagendas/internal/patient/service"
	patientstore "uniagendas/internal/patient/store"
	"uniagendas/internal/platform/config"
	"uniagendas/internal/platform/health"
	"uniagendas/internal/platform/kafka"
	"uniagendas/internal/platform/logger"
	"uniagendas/internal/platform/tracer"
	"uniagendas/internal/protocol/issuer"
	protocolmetrics "uniagendas/internal/protocol/metrics"
	"uniagendas/internal/protocol/registry"
	toolshandler "uniagendas/internal/tools/handler"
	httptransport "uniagendas/internal/transport/http"
	"uniagendas/pkg/platform/audit"
	"uniagendas/pkg/platform/audit/publisher"
	auditmemory "uniagendas/pkg/platform/audit/store/memory"
	"uniagendas/pkg/platform/circuit"
	"uniagendas/pkg/platform/middleware/metadata"
	"uniagendas/pkg/platform/middleware/ratelimit"
	"uniagendas/pkg/platform/middleware/request"
	"uniagendas/pkg/protocol"
)

const (
	shutdownTimeout     = 15 * time.Second
	sweepEvery          = time.Minute
	poolStatsEvery      = 15 * time.Second
	auditBuffer         = 1024
	auditRetryFor       = 5 * time.Second
	retainedAuditEvents = 10000
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing uniagendas",
		"addr", cfg.Addr,
		"env", cfg.Env,
		"timezone", cfg.Timezone,
	)

	infra, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.close(log)

	trc := tracer.NewOTel(nil)
	healthHandler := health.New(cfg.Env)

	// Protocol issuance: Redis reservations behind a breaker, memory fallback.
	protoMetrics := protocolmetrics.New()
	local := registry.NewInMemory()
	var reserver registry.Reserver = local
	if infra.redis != nil {
		breaker := circuit.New("protocol-registry", circuit.OnStateChange(func(name string, to circuit.State) {
			protoMetrics.SetDegraded(to == circuit.StateOpen)
			log.Warn("protocol registry breaker changed state", "breaker", name, "state", to.String())
		}))
		resilient := registry.NewResilient(registry.NewRedis(infra.redis.Client), reserver,
			registry.WithBreaker(breaker),
			registry.WithResilientLogger(log),
			registry.WithResilientTracer(trc),
		)
		reserver = resilient
		healthHandler.RegisterCheck("redis", infra.redis.Health, health.Optional())
		healthHandler.RegisterCheck("protocol_registry", resilient.Health, health.Optional())
	}
	loc := cfg.Location()
	generator := protocol.NewGenerator(protocol.WithLocation(loc))
	protocolIssuer := issuer.New(reserver,
		issuer.WithGenerator(generator),
		issuer.WithMaxAttempts(cfg.Protocol.MaxAttempts),
		issuer.WithReservationTTL(cfg.Protocol.ReservationTTL),
		issuer.WithDatedPrefix(cfg.Protocol.DatedPrefix),
		issuer.WithMetrics(protoMetrics),
		issuer.WithTracer(trc),
		issuer.WithLogger(log),
	)

	// Audit events always land in memory for the admin endpoints and, when
	// brokers are configured, on the Kafka topic as well.
	recent := auditmemory.NewInMemoryStore(auditmemory.WithMaxEvents(retainedAuditEvents))
	sinks := audit.Tee{recent}
	if infra.producer != nil {
		sinks = append(audit.Tee{kafka.NewAuditSink(infra.producer, cfg.Kafka.Topic)}, sinks...)
		healthHandler.RegisterCheck("kafka", infra.producer.Ping, health.Optional())
	}
	events := publisher.New(sinks,
		publisher.WithQueue(auditBuffer),
		publisher.WithRetry(auditRetryFor),
		publisher.WithMetrics(publisher.NewMetrics()),
		publisher.WithLogger(log),
	)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := events.Close(drainCtx); err != nil {
			log.Warn("audit queue not drained", "pending", events.Pending(), "error", err)
		}
	}()

	// Stores: Postgres when configured, memory otherwise.
	var (
		patients     patientservice.Store     = patientstore.NewInMemory()
		doctors      doctorservice.Store      = doctorstore.NewInMemory()
		appointments appointmentservice.Store = appointmentstore.NewInMemory()
	)
	if infra.db != nil {
		patients = patientstore.NewPostgres(infra.db.DB())
		doctors = doctorstore.NewPostgres(infra.db.DB())
		appointments = appointmentstore.NewPostgres(infra.db.DB())
		healthHandler.RegisterCheck("database", infra.db.Health)
	} else {
		log.Warn("DATABASE_URL not set, records are kept in memory")
	}

	patientSvc := patientservice.NewPatientService(patients,
		patientservice.WithLogger(log),
		patientservice.WithAuditEmitter(events),
		patientservice.WithMetrics(patientmetrics.New()),
	)
	doctorSvc := doctorservice.NewDoctorService(doctors,
		doctorservice.WithLogger(log),
		doctorservice.WithAuditEmitter(events),
		doctorservice.WithMetrics(doctormetrics.New()),
	)
	appointmentSvc := appointmentservice.NewAppointmentService(appointments, patientSvc, doctorSvc, protocolIssuer,
		appointmentservice.WithLogger(log),
		appointmentservice.WithAuditEmitter(events),
		appointmentservice.WithMetrics(appointmentmetrics.New()),
		appointmentservice.WithTracer(trc),
		appointmentservice.WithLocation(loc),
	)

	httpMetrics := request.NewMetrics()
	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst,
		ratelimit.WithLogger(log),
		ratelimit.OnDeny(httpMetrics.IncrementRateLimited),
	)
	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Config{
		Health:         healthHandler,
		Patients:       patienthandler.New(patientSvc, log),
		Doctors:        doctorhandler.New(doctorSvc, log),
		Appointments:   appointmenthandler.New(appointmentSvc, log, loc),
		Tools:          toolshandler.New(generator, log),
		Admin:          admin.New(admin.NewService(recent), log),
		ToolsLimiter:   limiter,
		AdminToken:     cfg.AdminToken,
		Metrics:        httpMetrics,
		Timeout:        cfg.RequestTimeout,
		TrustedProxies: trusted,
	}, log)
	if cfg.AdminToken == "" {
		log.Info("ADMIN_API_TOKEN not set, admin endpoints are disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return limiter.Run(gctx, sweepEvery)
	})
	g.Go(func() error {
		return every(gctx, sweepEvery, func() {
			if n := local.Sweep(); n > 0 {
				log.Debug("expired protocol reservations swept", "count", n)
			}
		})
	})
	if infra.redis != nil {
		g.Go(func() error {
			return infra.redis.RunPoolStats(gctx, poolStatsEvery)
		})
	}
	return g.Wait()
}

// every runs fn on each tick until ctx is cancelled.
func every(ctx context.Context, interval time.Duration, fn func()) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			fn()
		}
	}
}
