package scenes

import (
	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/session"
	"github.com/hajimehoshi/ebiten/v2"
)

type actionSet [cfg.ActionCount]bool

// inputPoller double-buffers action state so edge-triggered actions fire
// once per press.
type inputPoller struct {
	current  actionSet
	previous actionSet

	cursorX, cursorY int
	primed           bool
}

// poll reads the keyboard and mouse and returns this tick's input.
func (p *inputPoller) poll() session.Input {
	p.previous = p.current
	p.current = actionSet{}

	for action, binding := range cfg.Input.Bindings {
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				p.current[action] = true
			}
		}
		for _, btn := range binding.MouseButtons {
			if ebiten.IsMouseButtonPressed(btn) {
				p.current[action] = true
			}
		}
	}

	x, y := ebiten.CursorPosition()
	dx, dy := 0, 0
	if p.primed {
		dx, dy = x-p.cursorX, y-p.cursorY
	}
	p.cursorX, p.cursorY, p.primed = x, y, true

	return buildInput(p.current, p.previous, float64(dx), float64(dy))
}

func (p *inputPoller) quitPressed() bool {
	return p.current[cfg.ActionQuit]
}

// buildInput maps held and previous action state plus a cursor delta in
// pixels onto the session input.
func buildInput(cur, prev actionSet, dx, dy float64) session.Input {
	pressed := func(a cfg.ActionID) bool { return cur[a] && !prev[a] }
	axis := func(pos, neg cfg.ActionID) float64 {
		v := 0.0
		if cur[pos] {
			v++
		}
		if cur[neg] {
			v--
		}
		return v
	}

	in := session.Input{
		Forward: axis(cfg.ActionForward, cfg.ActionBack),
		Strafe:  axis(cfg.ActionStrafeRight, cfg.ActionStrafeLeft),
		Jump:    pressed(cfg.ActionJump),
		Fire:    cur[cfg.ActionFire],
		Crouch:  pressed(cfg.ActionCrouch),
		LookX:   dx * cfg.Input.LookScale,
		LookY:   dy * cfg.Input.LookScale,
	}
	for i, a := range cfg.SlotActions {
		if pressed(a) {
			in.Slot = i + 1
		}
	}
	return in
}
