package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// AlertWatcher logs every alert published on its subjects. It stands in for
// a notification surface.
type AlertWatcher struct {
	server   *NatsServer
	subjects []string
}

func NewAlertWatcher(server *NatsServer, subjects ...string) *AlertWatcher {
	return &AlertWatcher{
		server:   server,
		subjects: subjects,
	}
}

func (w *AlertWatcher) Start(ctx context.Context) error {
	select {
	case <-w.server.Ready():
	case <-ctx.Done():
		return nil
	}

	for _, subject := range w.subjects {
		unsub, err := w.server.Subscribe(subject, func(subject string, data []byte) {
			logAlert(ctx, subject, data)
		})
		if err != nil {
			return fmt.Errorf("watching alerts: %w", err)
		}
		defer unsub()
	}

	slog.InfoContext(ctx, "watching alerts", "subjects", w.subjects)
	<-ctx.Done()
	return nil
}

func logAlert(ctx context.Context, subject string, data []byte) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		slog.WarnContext(ctx, "undecodable alert", "subject", subject, "error", err)
		return
	}
	slog.InfoContext(ctx, "alert", "subject", subject, "payload", payload)
}
