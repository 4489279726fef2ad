package command

import (
	"fmt"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/Lifor121/SketchBlade-sub002/internal/save"
	"github.com/Lifor121/SketchBlade-sub002/internal/session"
	"github.com/Lifor121/SketchBlade-sub002/internal/storage"
	"github.com/pixil98/go-errors"
)

type StartingItemConfig struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type SessionConfig struct {
	StartingGold  int                  `json:"starting_gold"`
	StartingItems []StartingItemConfig `json:"starting_items"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartingGold < 0 {
		el.Add(fmt.Errorf("starting_gold must not be negative"))
	}
	for i, si := range c.StartingItems {
		if si.Item == "" {
			el.Add(fmt.Errorf("starting_items %d: item is required", i))
		}
		if si.Count < 1 {
			el.Add(fmt.Errorf("starting_items %d: count must be positive", i))
		}
	}

	return el.Err()
}

func (c *SessionConfig) buildManager(
	saves storage.Storer[*save.Game],
	catalog storage.Storer[*game.ItemDefinition],
	broadcaster session.Broadcaster,
) (*session.Manager, error) {
	el := errors.NewErrorList()
	kit := make([]session.StartingItem, 0, len(c.StartingItems))
	for _, si := range c.StartingItems {
		if catalog.Get(si.Item) == nil {
			el.Add(fmt.Errorf("starting item %q is not in the catalog", si.Item))
			continue
		}
		kit = append(kit, session.StartingItem{Item: si.Item, Count: si.Count})
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	return session.NewManager(saves, catalog,
		session.WithBroadcaster(broadcaster),
		session.WithStartingKit(c.StartingGold, kit),
	), nil
}
