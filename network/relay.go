package network

import (
	"context"
	"time"

	"github.com/automoto/bhop-mp/shared/protocol"
)

// Relay is the client's view of the relay server. Sends never block the
// caller on a reply. ReceiveMessage returns ErrStreamTerminated once the
// stream is closed.
type Relay interface {
	Connect(ctx context.Context) error
	SetTimeout(d time.Duration)
	ReceiveMessage(ctx context.Context) (protocol.Message, error)
	SendPlayerUpdate(t protocol.Transform) error
	SendBullet(b protocol.BulletSpawn) error
	SendHealth(id, health int) error
	LocalID() int
	Close() error
}
