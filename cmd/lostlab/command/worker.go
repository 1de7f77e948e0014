package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-lostlab/internal/listener"
	"github.com/pixil98/go-lostlab/internal/messaging"
	"github.com/pixil98/go-lostlab/internal/player"
	"github.com/pixil98/go-lostlab/internal/session"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	cfg.Logging.Setup()

	spec, err := cfg.World.Load()
	if err != nil {
		return nil, err
	}

	store, err := cfg.Storage.Open()
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	pm := player.NewManager(spec, store, natsServer, cfg.Traveler.Name)
	cm := listener.NewConnectionManager(pm)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d-%s", i, l.Protocol)] = w
	}

	workers := service.WorkerList{
		"storage":   store,
		"nats":      natsServer,
		"listeners": &listeners,
	}
	if cfg.Nats.WatchAlerts {
		workers["alerts"] = messaging.NewAlertWatcher(natsServer, session.SubjectHazard, session.SubjectOutcome)
	}

	slog.Info("workers built", "world_start", spec.Start, "listeners", len(listeners))
	return workers, nil
}
