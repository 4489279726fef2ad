package command

import (
	"fmt"
	"log/slog"

	"github.com/Lifor121/SketchBlade-sub002/internal/driver"
	"github.com/Lifor121/SketchBlade-sub002/internal/messaging"
	service "github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	saves, err := cfg.Storage.Saves.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating save store: %w", err)
	}
	items, err := cfg.Storage.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item catalog: %w", err)
	}
	slog.Info("loaded storage", "saves", len(saves.GetAll()), "items", len(items.GetAll()))

	bus, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	sessions, err := cfg.Session.buildManager(saves, items, messaging.NewNatsBroadcaster(bus))
	if err != nil {
		return nil, fmt.Errorf("creating session manager: %w", err)
	}

	var opts []driver.DriverOpt
	if d := cfg.autosaveInterval(); d > 0 {
		opts = append(opts, driver.WithTickLength(d))
	}

	workers := service.WorkerList{
		"nats":   bus,
		"driver": driver.NewDriver([]driver.Manager{sessions}, opts...),
		"router": messaging.NewRouter(bus, sessions),
	}
	if cfg.Nats.AuditEvents {
		workers["audit"] = messaging.NewEventAuditor(bus, slog.Default())
	}

	return workers, nil
}
