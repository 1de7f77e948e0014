package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/iammegalith/telnet"
)

// TelnetListener serves the game to plain telnet clients.
type TelnetListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		port: port,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	// Connections outlive ctx until the server has stopped accepting.
	connCtx, cancelConns := context.WithCancel(context.Background())
	h := &telnetHandler{cm: l.cm, ctx: connCtx}

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), h)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
		case <-done:
		}
		cancelConns()
		h.wait()
	}()

	slog.InfoContext(ctx, "listening for telnet", "port", l.port)

	err := svr.ListenAndServe()
	switch {
	case err == nil, ctx.Err() != nil:
		return nil
	case errors.Is(err, syscall.EADDRINUSE):
		return fmt.Errorf("telnet port %d is already in use", l.port)
	default:
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}
}

type telnetHandler struct {
	cm  *ConnectionManager
	ctx context.Context
	wg  sync.WaitGroup
}

func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	h.wg.Add(1)
	defer h.wg.Done()

	log := slog.With("connection", uuid.New().String())
	log.InfoContext(h.ctx, "telnet connection opened")
	defer func() {
		if err := conn.Close(); err != nil {
			log.ErrorContext(h.ctx, "closing telnet connection", "error", err)
		}
		log.InfoContext(h.ctx, "telnet connection closed")
	}()

	h.cm.AcceptConnection(h.ctx, newCRLFReadWriter(conn))
}

func (h *telnetHandler) wait() {
	h.wg.Wait()
}
