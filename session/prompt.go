package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/network"
	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/go-gl/mathgl/mgl64"
)

// DialFunc opens a joined relay connection.
type DialFunc func(ctx context.Context, addr string, join protocol.JoinRequest) (network.Relay, error)

// Prompt asks for a username and relay address until a connection succeeds.
type Prompt struct {
	in   *bufio.Reader
	out  io.Writer
	dial DialFunc

	// Ask skips the questions on the first attempt when false.
	Ask bool
}

func NewPrompt(in io.Reader, out io.Writer, dial DialFunc) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out, dial: dial, Ask: true}
}

// Connect loops until dial succeeds. Connection failures are printed with a
// hint and asked again; anything else, including end of input, is returned.
func (p *Prompt) Connect(ctx context.Context, profile config.Profile, spawn mgl64.Vec3) (network.Relay, config.Profile, error) {
	ask := p.Ask
	for {
		if ask || profile.Username == "" || profile.Address == "" {
			var err error
			if profile.Username, err = p.ask("username", profile.Username); err != nil {
				return nil, profile, err
			}
			if profile.Address, err = p.ask("relay address", profile.Address); err != nil {
				return nil, profile, err
			}
		}
		ask = true

		addr := withPort(profile.Address)
		fmt.Fprintf(p.out, "connecting to %s as %s...\n", addr, profile.Username)
		relay, err := p.dial(ctx, addr, protocol.JoinRequest{
			Username: profile.Username,
			Position: spawn,
			Health:   config.Combat.MaxHealth,
		})
		if err == nil {
			return relay, profile, nil
		}

		var ce *network.ConnectionError
		if !errors.As(err, &ce) {
			return nil, profile, err
		}
		fmt.Fprintf(p.out, "could not connect: %v\n  %s\n", ce, ce.Hint())
		if ctx.Err() != nil {
			return nil, profile, ctx.Err()
		}
	}
}

func (p *Prompt) ask(label, def string) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}
		raw, err := p.in.ReadString('\n')
		if err != nil && raw == "" {
			return "", fmt.Errorf("read %s: %w", label, err)
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			line = def
		}
		if line != "" {
			return line, nil
		}
	}
}

// withPort appends the default relay port when addr has none.
func withPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, strconv.Itoa(config.Network.Port))
}
