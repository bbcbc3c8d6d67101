package config

import "github.com/hajimehoshi/ebiten/v2"

// ActionID represents a logical game action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionForward
	ActionBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionJump
	ActionFire
	ActionCrouch
	ActionSlot1
	ActionSlot2
	ActionQuit
	ActionCount // Must be last - used for array sizing
)

// InputBinding represents the keys and mouse buttons bound to an action
type InputBinding struct {
	Keys         []ebiten.Key
	MouseButtons []ebiten.MouseButton
}

// InputConfig holds all input mappings
type InputConfig struct {
	Bindings map[ActionID]InputBinding
	// LookScale converts cursor pixels into look units
	LookScale float64
}

// Input is the global input configuration
var Input InputConfig

// SlotActions lists the weapon slot actions in slot order.
var SlotActions = []ActionID{ActionSlot1, ActionSlot2}

func init() {
	Input = InputConfig{
		LookScale: 0.0025,
		Bindings: map[ActionID]InputBinding{
			ActionForward:     {Keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyUp}},
			ActionBack:        {Keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyDown}},
			ActionStrafeLeft:  {Keys: []ebiten.Key{ebiten.KeyA, ebiten.KeyLeft}},
			ActionStrafeRight: {Keys: []ebiten.Key{ebiten.KeyD, ebiten.KeyRight}},
			ActionJump:        {Keys: []ebiten.Key{ebiten.KeySpace}},
			ActionFire: {
				Keys:         []ebiten.Key{ebiten.KeyF},
				MouseButtons: []ebiten.MouseButton{ebiten.MouseButtonLeft},
			},
			ActionCrouch: {Keys: []ebiten.Key{ebiten.KeyC, ebiten.KeyControlLeft}},
			ActionSlot1:  {Keys: []ebiten.Key{ebiten.KeyDigit1}},
			ActionSlot2:  {Keys: []ebiten.Key{ebiten.KeyDigit2}},
			ActionQuit:   {Keys: []ebiten.Key{ebiten.KeyEscape}},
		},
	}
}
