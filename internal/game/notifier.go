package game

import (
	"sync"

	"github.com/google/uuid"
)

// ChangeKind describes what a transfer did.
type ChangeKind string

const (
	ChangeRelocate ChangeKind = "relocate" // destination was empty
	ChangeSwap     ChangeKind = "swap"
	ChangeMerge    ChangeKind = "merge"
	ChangeDiscard  ChangeKind = "discard" // moved into trash
	ChangeRestore  ChangeKind = "restore" // bulk change, re-query everything
)

// ChangeEvent is raised once per successful mutation and names every slot it
// touched.
type ChangeEvent struct {
	Id          string       `json:"id"`
	Kind        ChangeKind   `json:"kind"`
	Source      SlotAddress  `json:"source"`
	Destination SlotAddress  `json:"destination"`
	Slots       []SlotChange `json:"slots"`
}

// SlotChange is the new content of one touched slot. Item is nil when the
// slot became empty.
type SlotChange struct {
	Address SlotAddress `json:"address"`
	Item    *Item       `json:"item,omitempty"`
}

func newChangeEvent(kind ChangeKind, src, dst SlotAddress, srcItem, dstItem *Item) ChangeEvent {
	return ChangeEvent{
		Id:          uuid.New().String(),
		Kind:        kind,
		Source:      src,
		Destination: dst,
		Slots: []SlotChange{
			{Address: src, Item: srcItem.Clone()},
			{Address: dst, Item: dstItem.Clone()},
		},
	}
}

// Notifier is told about every committed change.
type Notifier interface {
	Notify(ChangeEvent)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ChangeEvent)

func (f NotifierFunc) Notify(ev ChangeEvent) {
	f(ev)
}

// Observers fans a change out to every subscriber.
type Observers struct {
	mu     sync.RWMutex
	nextId int
	subs   map[int]Notifier
}

// Subscribe registers n and returns a function that removes it again.
func (o *Observers) Subscribe(n Notifier) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subs == nil {
		o.subs = make(map[int]Notifier)
	}
	id := o.nextId
	o.nextId++
	o.subs[id] = n

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// Notify satisfies Notifier.
func (o *Observers) Notify(ev ChangeEvent) {
	o.mu.RLock()
	subs := make([]Notifier, 0, len(o.subs))
	for _, n := range o.subs {
		subs = append(subs, n)
	}
	o.mu.RUnlock()

	for _, n := range subs {
		n.Notify(ev)
	}
}
