package core

import (
	"io"
	"sync"
	"testing"

	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

type fakePeer struct {
	id   string
	mu   sync.Mutex
	sent []any
}

func (p *fakePeer) Id() string { return p.id }

func (p *fakePeer) SendMessage(msg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakePeer) messages() []protocol.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []protocol.Message
	for _, m := range p.sent {
		if msg, ok := m.(protocol.Message); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (p *fakePeer) reset() {
	p.mu.Lock()
	p.sent = nil
	p.mu.Unlock()
}

func newTestServer(max int) *Server {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewServer(max, logrus.NewEntry(l))
}

func join(s *Server, id, name string) *fakePeer {
	p := &fakePeer{id: id}
	s.HandleJoin(p, protocol.JoinRequest{Username: name, Health: 100})
	return p
}

func TestJoinAssignsSequentialIDs(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	b := join(s, "b", "bob")

	if got := a.sent[0]; got != (protocol.JoinAccepted{ID: 1}) {
		t.Fatalf("first accept = %+v", got)
	}
	if got := b.sent[0]; got != (protocol.JoinAccepted{ID: 2}) {
		t.Fatalf("second accept = %+v", got)
	}

	// Bob hears about Alice; Alice hears about Bob.
	if msgs := b.messages(); len(msgs) != 1 || !msgs[0].Joined || msgs[0].ID != 1 || msgs[0].Username != "alice" {
		t.Fatalf("bob got %+v", msgs)
	}
	if msgs := a.messages(); len(msgs) != 1 || !msgs[0].Joined || msgs[0].ID != 2 {
		t.Fatalf("alice got %+v", msgs)
	}
}

func TestJoinRejectedWhenFull(t *testing.T) {
	s := newTestServer(1)
	join(s, "a", "alice")
	b := join(s, "b", "bob")

	if _, ok := b.sent[0].(protocol.JoinRejected); !ok || len(b.sent) != 1 {
		t.Fatalf("bob got %+v", b.sent)
	}
	if s.PlayerCount() != 1 {
		t.Fatalf("count = %d", s.PlayerCount())
	}
}

func TestDuplicateJoinIgnored(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	s.HandleJoin(a, protocol.JoinRequest{Username: "again"})

	if len(a.sent) != 1 || s.PlayerCount() != 1 {
		t.Fatalf("sent=%+v count=%d", a.sent, s.PlayerCount())
	}
}

func TestPlayerUpdateStampedAndRemembered(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	b := join(s, "b", "bob")
	a.reset()
	b.reset()

	// The claimed id is replaced with the sender's.
	s.HandleMessage(a, protocol.PlayerUpdate(99, protocol.Transform{Position: mgl64.Vec3{1, 2, 3}, Rotation: 45}))

	if len(a.sent) != 0 {
		t.Fatalf("sender got its own update back")
	}
	msgs := b.messages()
	if len(msgs) != 1 || msgs[0].ID != 1 || msgs[0].Position != (mgl64.Vec3{1, 2, 3}) || msgs[0].Rotation != 45 {
		t.Fatalf("bob got %+v", msgs)
	}

	c := join(s, "c", "carol")
	for _, m := range c.messages() {
		if m.ID == 1 && (m.Position != (mgl64.Vec3{1, 2, 3}) || m.Rotation != 45) {
			t.Fatalf("newcomer got stale state %+v", m)
		}
	}
}

func TestHealthUpdateForwardedAndRemembered(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	b := join(s, "b", "bob")
	b.reset()

	s.HandleMessage(a, protocol.HealthUpdate(2, 60))
	if msgs := b.messages(); len(msgs) != 1 || msgs[0].Object != protocol.ObjectHealthUpdate || msgs[0].Health != 60 {
		t.Fatalf("bob got %+v", msgs)
	}

	c := join(s, "c", "carol")
	for _, m := range c.messages() {
		if m.ID == 2 && m.Health != 60 {
			t.Fatalf("newcomer sees bob at %d", m.Health)
		}
	}
}

func TestBulletStampedWithShooter(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	b := join(s, "b", "bob")
	b.reset()

	s.HandleMessage(a, protocol.Bullet(0, protocol.BulletSpawn{Damage: 12}))
	if msgs := b.messages(); len(msgs) != 1 || msgs[0].ID != 1 || msgs[0].Damage != 12 {
		t.Fatalf("bob got %+v", msgs)
	}
}

func TestUnjoinedAndUnknownMessagesDropped(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	b := join(s, "b", "bob")
	a.reset()
	b.reset()

	s.HandleMessage(&fakePeer{id: "stranger"}, protocol.HealthUpdate(1, 0))
	s.HandleMessage(a, protocol.Message{Object: "grenade"})

	if len(a.sent)+len(b.sent) != 0 {
		t.Fatalf("dropped messages were forwarded")
	}
}

func TestDisconnectBroadcastsLeave(t *testing.T) {
	s := newTestServer(4)
	a := join(s, "a", "alice")
	b := join(s, "b", "bob")
	b.reset()

	s.HandleDisconnect(a, nil)
	if msgs := b.messages(); len(msgs) != 1 || !msgs[0].Left || msgs[0].ID != 1 {
		t.Fatalf("bob got %+v", msgs)
	}
	s.HandleDisconnect(a, nil)
	if len(b.messages()) != 1 || s.PlayerCount() != 1 {
		t.Fatalf("second disconnect was not a no-op")
	}
}
