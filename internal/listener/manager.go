// Package listener accepts telnet and ssh connections and hands them to the
// game one at a time.
package listener

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

const occupiedMessage = "Another traveler is already exploring the station. Try again later.\n"

// SessionRunner plays a game over a connection.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

// ConnectionManager admits a single connection at a time. Others are told
// the station is occupied and turned away.
type ConnectionManager struct {
	runner SessionRunner
	active sync.Mutex
}

func NewConnectionManager(runner SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		runner: runner,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if !m.active.TryLock() {
		slog.InfoContext(ctx, "turning away connection, session in progress")
		if _, err := io.WriteString(conn, occupiedMessage); err != nil {
			slog.WarnContext(ctx, "writing occupied message", "error", err)
		}
		return
	}
	defer m.active.Unlock()

	if err := m.runner.RunSession(ctx, conn); err != nil && ctx.Err() == nil {
		slog.WarnContext(ctx, "traveler session", "error", err)
	}
}
