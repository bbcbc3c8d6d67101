package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	cfg "github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/geometry"
	"github.com/automoto/bhop-mp/session"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ErrQuit is returned from Update when the player asks to leave.
var ErrQuit = errors.New("quit")

// PlayScene ticks the session once per ebiten update and prints a debug
// HUD. It does no 3D rendering.
type PlayScene struct {
	session *session.Session
	input   inputPoller
	dt      time.Duration
}

func NewPlayScene(s *session.Session) *PlayScene {
	return &PlayScene{
		session: s,
		dt:      time.Second / time.Duration(cfg.C.TickHz),
	}
}

func (ps *PlayScene) Update() error {
	in := ps.input.poll()
	if ps.input.quitPressed() {
		return ErrQuit
	}
	return ps.session.Tick(in, ps.dt)
}

func (ps *PlayScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS %.0f\n%s", ebiten.ActualFPS(), hudText(ps.session)))
}

func hudText(s *session.Session) string {
	var b strings.Builder
	reg := s.Registry()
	p := reg.Local()

	fmt.Fprintf(&b, "%s (#%d)  HP %d\n", p.Username, p.ID(), p.Health())
	if !p.Alive() {
		b.WriteString("YOU DIED - spectating\n")
	} else {
		speed := geometry.Horizontal(p.Body.Velocity).Len()
		fmt.Fprintf(&b, "pos %.1f %.1f %.1f  yaw %.0f  pitch %.0f\n",
			p.Body.Position[0], p.Body.Position[1], p.Body.Position[2], p.Body.Yaw, p.Body.Pitch)
		fmt.Fprintf(&b, "speed %.1f  grounded %t  crouched %t\n", speed, p.Body.Grounded, p.Body.Crouched)
		if p.Bhop.Active {
			fmt.Fprintf(&b, "BHOP x%d  boost %.1f\n", p.Bhop.Chain, p.Bhop.Boost)
		}
	}

	inv := p.Inventory
	for i := 0; i < inv.Len(); i++ {
		st := inv.Weapon(i).Status()
		marker := " "
		if i == inv.ActiveIndex() {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s[%d] %-8s %2d/%d", marker, i+1, st.Name, st.Ammo, st.MaxAmmo)
		if st.Reloading {
			fmt.Fprintf(&b, "  reloading %3.0f%%", st.Progress()*100)
		}
		b.WriteByte('\n')
	}

	enemies := reg.Enemies()
	fmt.Fprintf(&b, "players %d  bullets %d\n", len(enemies), len(reg.Bullets()))
	for _, e := range enemies {
		pos := e.Position()
		fmt.Fprintf(&b, "  #%d %-12s HP %3d  at %.0f %.0f %.0f\n", e.ID(), e.Username(), e.Health(), pos[0], pos[1], pos[2])
	}
	return b.String()
}
