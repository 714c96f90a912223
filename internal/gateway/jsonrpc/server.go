package jsonrpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc"
	rpcjson "github.com/gorilla/rpc/json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Xausdorf/dapp-votes/internal/metrics"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

const MetricsPath = "/metrics"

type Server struct {
	endpoint *url.URL
	voting   *usecase.Voting
	registry *prometheus.Registry
	metrics  *metrics.RPCMetrics
	srv      *http.Server
}

func NewServer(endpoint *url.URL, voting *usecase.Voting) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		endpoint: endpoint,
		voting:   voting,
		registry: registry,
		metrics:  metrics.NewRPCMetrics(registry),
		srv:      &http.Server{},
	}
}

// Ready builds the HTTP handler: JSON-RPC on the endpoint path, metrics on MetricsPath.
func (s *Server) Ready() http.Handler {
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(rpcjson.NewCodec(), "application/json")
	if err := rpcServer.RegisterService(&DappVotesService{voting: s.voting, metrics: s.metrics}, "DappVotes"); err != nil {
		panic(err)
	}
	if err := rpcServer.RegisterService(&ChainService{voting: s.voting}, "Chain"); err != nil {
		panic(err)
	}

	router := mux.NewRouter()
	router.Handle(MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	path := s.endpoint.Path
	if len(path) < 1 {
		path = "/"
	}
	router.Handle(path, rpcServer)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))

	return recovery(cors(router))
}

// Serve serves on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.srv.Handler = s.Ready()
	log.Info("serving json-rpc", "endpoint", s.endpoint.String(), "address", l.Addr().String())

	if err := s.srv.Serve(l); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("json-rpc server stopped: %w", err)
	}
	return nil
}

// Start listens on the endpoint host and serves until Shutdown.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.endpoint.Host)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.endpoint.Host, err)
	}
	return s.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error("recovered from panic", "panic", fmt.Sprint(v...))
}
