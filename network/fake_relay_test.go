package network

import (
	"context"
	"sync"
	"time"

	"github.com/automoto/bhop-mp/shared/protocol"
)

// fakeRelay feeds queued messages to the receive loop and records sends.
type fakeRelay struct {
	id    int
	inbox chan protocol.Message
	stop  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	updates []protocol.Transform
	bullets []protocol.BulletSpawn
	health  [][2]int
	sendErr error
}

func newFakeRelay(id int) *fakeRelay {
	return &fakeRelay{id: id, inbox: make(chan protocol.Message, 16), stop: make(chan struct{})}
}

func (f *fakeRelay) Connect(context.Context) error { return nil }
func (f *fakeRelay) SetTimeout(time.Duration)      {}
func (f *fakeRelay) LocalID() int                  { return f.id }

func (f *fakeRelay) ReceiveMessage(ctx context.Context) (protocol.Message, error) {
	select {
	case m := <-f.inbox:
		return m, nil
	case <-f.stop:
		return protocol.Message{}, ErrStreamTerminated
	case <-ctx.Done():
		return protocol.Message{}, ctx.Err()
	}
}

func (f *fakeRelay) SendPlayerUpdate(t protocol.Transform) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.updates = append(f.updates, t)
	return nil
}

func (f *fakeRelay) SendBullet(b protocol.BulletSpawn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bullets = append(f.bullets, b)
	return nil
}

func (f *fakeRelay) SendHealth(id, health int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.health = append(f.health, [2]int{id, health})
	return nil
}

func (f *fakeRelay) Close() error {
	f.once.Do(func() { close(f.stop) })
	return nil
}

func (f *fakeRelay) sentUpdates() []protocol.Transform {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]protocol.Transform(nil), f.updates...)
}
