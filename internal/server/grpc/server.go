package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name probes ask about. The empty name reports the same.
const ServiceName = "secretkeeper"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer answers grpc.health.v1 probes. It pings the store on a timer
// and flips between SERVING and NOT_SERVING.
type HealthServer struct {
	address  string
	health   *health.Server
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

// NewHealthServer builds the server. A nil pinger means there is no external
// store and the service is always SERVING.
func NewHealthServer(a string, l logging.Logger, p Pinger, interval, timeout time.Duration) *HealthServer {
	return &HealthServer{
		address:  a,
		health:   health.NewServer(),
		pinger:   p,
		interval: interval,
		timeout:  timeout,
		logger:   l.With("module", "grpc_health"),
	}
}

func (s *HealthServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// probe pings the store once and records the result.
func (s *HealthServer) probe(ctx context.Context) {
	if s.pinger == nil {
		s.setStatus(healthpb.HealthCheckResponse_SERVING)
		return
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.pinger.PingContext(pctx); err != nil {
		s.logger.Warn(ctx, "store ping failed", "error", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
