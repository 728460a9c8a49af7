package watch

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/orgbuilder/internal/metrics"
)

// metricsServer serves the registry on /metrics.
type metricsServer struct {
	srv *http.Server
	ln  net.Listener
}

func startMetricsServer(addr string, reg *prom.Registry) (*metricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	ms := &metricsServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := ms.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server stopped", slog.String("error", err.Error()))
		}
	}()
	slog.Info("Metrics server listening", slog.String("addr", ln.Addr().String()))
	return ms, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (m *metricsServer) Addr() string { return m.ln.Addr().String() }

func (m *metricsServer) stop(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
