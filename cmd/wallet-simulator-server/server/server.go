package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/octra-labs/wallet-simulator-go/pkg/hub"
)

type Server struct {
	logger     *zap.Logger
	server     *http.Server
	listener   net.Listener
	mux        *http.ServeMux
	hub        *hub.Hub
	rpcHandler http.Handler
	address    string
}

func NewServer(logger *zap.Logger, h *hub.Hub, rpcHandler http.Handler) *Server {
	return &Server{
		logger:     logger.Named("server"),
		hub:        h,
		rpcHandler: rpcHandler,
	}
}

func (s *Server) Address() string {
	return s.address
}

func (s *Server) Port() (int, error) {
	_, portString, err := net.SplitHostPort(s.address)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portString)
}

func (s *Server) Listen(address string) error {
	if s.server != nil {
		return errors.New("server already started")
	}

	_, _, err := net.SplitHostPort(address)
	if err != nil {
		return errors.Wrap(err, "invalid address")
	}

	s.server = &http.Server{
		Addr:              address,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mux = http.NewServeMux()
	s.mux.Handle("/rpc", s.rpcHandler)
	s.mux.HandleFunc("/ws", s.websocketHandler)
	s.mux.HandleFunc("/health", s.healthHandler)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.server.Handler = allowCORS(s.mux)

	s.listener, err = net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.address = s.listener.Addr().String()

	return nil
}

func (s *Server) Serve() {
	err := s.server.Serve(s.listener)
	if !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("server closed with error", zap.Error(err))
	}
}

func (s *Server) Stop(ctx context.Context) {
	err := s.server.Shutdown(ctx)
	if err != nil {
		s.logger.Error("failed to shutdown server", zap.Error(err))
	}

	s.server = nil
	s.address = ""
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to write health response", zap.Error(err))
	}
}
