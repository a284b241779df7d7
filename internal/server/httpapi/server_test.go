package httpapi

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_RunAndShutdown(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", logging.Discard(), http.HandlerFunc(HandleHealth), time.Second)

	var (
		mu   sync.Mutex
		addr string
	)
	s.listen = func(network, address string) (net.Listener, error) {
		ln, err := net.Listen(network, address)
		if err == nil {
			mu.Lock()
			addr = ln.Addr().String()
			mu.Unlock()
		}
		return ln, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return addr != ""
	}, time.Second, 5*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_ListenError(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", logging.Discard(), http.NotFoundHandler(), time.Second)
	s.listen = func(string, string) (net.Listener, error) { return nil, &net.OpError{Op: "listen"} }

	require.Error(t, s.Run(context.Background()))
}
