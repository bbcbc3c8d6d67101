package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/coder/websocket"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Reason
	}{
		{fmt.Errorf("dial: %w", syscall.ECONNREFUSED), ReasonRefused},
		{&net.DNSError{Err: "no such host", Name: "nope.invalid"}, ReasonUnresolvable},
		{context.DeadlineExceeded, ReasonTimeout},
		{errors.New("boom"), ReasonOther},
		{&ConnectionError{Reason: ReasonRejected, Err: errors.New("full")}, ReasonRejected},
	}
	for _, c := range cases {
		got := classify("relay:8000", c.err)
		if got.Reason != c.want {
			t.Errorf("classify(%v) = %v, want %v", c.err, got.Reason, c.want)
		}
		if got.Hint() == "" {
			t.Errorf("no hint for %v", got.Reason)
		}
	}
}

func TestConnectionErrorUnwraps(t *testing.T) {
	err := error(classify("relay:8000", fmt.Errorf("dial: %w", syscall.ECONNREFUSED)))
	var ce *ConnectionError
	if !errors.As(err, &ce) || !errors.Is(err, syscall.ECONNREFUSED) {
		t.Fatalf("err = %v", err)
	}
}

func newOfflineClient() *Client {
	return NewClient("relay:8000", protocol.JoinRequest{Username: "me"}, quietLog())
}

func TestReceiveDrainsInboxBeforeTerminating(t *testing.T) {
	c := newOfflineClient()
	c.deliver(protocol.PlayerLeft(3))
	c.deliver(protocol.PlayerLeft(4))
	c.terminate(nil)

	for _, want := range []int{3, 4} {
		msg, err := c.ReceiveMessage(context.Background())
		if err != nil || msg.ID != want {
			t.Fatalf("got %+v, %v; want id %d", msg, err, want)
		}
	}
	if _, err := c.ReceiveMessage(context.Background()); !errors.Is(err, ErrStreamTerminated) {
		t.Fatalf("err = %v", err)
	}
}

func TestReceiveWrapsDisconnectCause(t *testing.T) {
	c := newOfflineClient()
	cause := errors.New("reset by peer")
	c.terminate(cause)

	_, err := c.ReceiveMessage(context.Background())
	if !errors.Is(err, ErrStreamTerminated) {
		t.Fatalf("err = %v", err)
	}
}

func TestReceiveHonorsContext(t *testing.T) {
	c := newOfflineClient()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := c.ReceiveMessage(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestSendBeforeConnect(t *testing.T) {
	c := newOfflineClient()
	if err := c.SendBullet(protocol.BulletSpawn{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v", err)
	}
	if c.LocalID() != 0 {
		t.Fatalf("id before join = %d", c.LocalID())
	}
}

func TestPendingDrainsWithoutBlocking(t *testing.T) {
	c := newOfflineClient()
	if got := c.Pending(); len(got) != 0 {
		t.Fatalf("pending on empty inbox = %v", got)
	}
	c.deliver(protocol.PlayerLeft(1))
	c.deliver(protocol.PlayerLeft(2))
	if got := c.Pending(); len(got) != 2 {
		t.Fatalf("pending = %v", got)
	}
}

// dialLoopback opens a real websocket to an in-process server. The returned
// channel is closed once the server side sees the socket go away.
func dialLoopback(t *testing.T) (*websocket.Conn, <-chan struct{}) {
	t.Helper()
	gone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer close(gone)
		for {
			if _, _, err := conn.Read(context.Background()); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn, gone
}

func TestAttachKeepsSocketWhileOpen(t *testing.T) {
	c := newOfflineClient()
	conn, _ := dialLoopback(t)
	defer conn.CloseNow()

	if !c.attach(conn) {
		t.Fatal("attach refused a socket on a live stream")
	}
	if err := c.SendPlayerUpdate(protocol.Transform{}); err != nil {
		t.Fatalf("send after attach: %v", err)
	}
}

func TestAttachClosesSocketAfterAbort(t *testing.T) {
	c := newOfflineClient()
	c.abort()

	conn, gone := dialLoopback(t)
	if c.attach(conn) {
		t.Fatal("attach accepted a socket after abort")
	}
	if err := c.SendPlayerUpdate(protocol.Transform{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("send after late attach = %v, want ErrNotConnected", err)
	}
	select {
	case <-gone:
	case <-time.After(time.Second):
		t.Fatal("late socket was left open")
	}
}
