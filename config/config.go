package config

import "time"

// MovementConfig contains all locomotion tuning for the local player.
type MovementConfig struct {
	// Locomotion (units per second, units per second squared)
	Acceleration float64
	Friction     float64
	AirFriction  float64
	MaxSpeed     float64
	AirControl   float64 // Acceleration multiplier while airborne and not bhopping

	// Vertical
	Gravity    float64
	JumpHeight float64 // v0 = sqrt(2 * Gravity * JumpHeight)

	// Body
	Height          float64
	CrouchFactor    float64 // Eye height multiplier while crouched
	ProbeDistance   float64 // Length of the horizontal collision probes
	FootProbeHeight float64
	AxisProbeHeight float64
	GroundSlack     float64 // Extra distance under the feet still counted as ground
	SlopeNormalY    float64 // Minimum surface normal Y to snap onto
	StepHeight      float64 // Maximum upward snap per tick

	// Look
	MouseSensitivity float64 // Degrees per unit of look delta
	PitchLimit       float64

	// JumpDebounce is the minimum spacing between queued jump requests.
	JumpDebounce time.Duration
}

// BhopConfig contains the bunny-hop chaining parameters.
type BhopConfig struct {
	Window         time.Duration // Time after landing during which a jump chains
	BaseBoost      float64
	BoostIncrement float64 // Added per consecutive chained jump
	MaxBoost       float64
	PlainBoost     float64 // Horizontal amplification of a non-chained jump
	AlignThreshold float64 // Dot product above which intent counts as "same direction"
}

// WeaponConfig describes one inventory slot's weapon.
type WeaponConfig struct {
	Name         string
	MaxAmmo      int
	ReloadTime   time.Duration
	ShotInterval time.Duration
	DamageMin    int
	DamageMax    int
}

// CombatConfig contains fire and hit resolution settings.
type CombatConfig struct {
	MaxRange      float64
	ReloadStep    time.Duration // Reload tasks advance on this interval
	MuzzleHeight  float64       // Bullet spawn offset above the feet
	BulletTTL     time.Duration
	BulletSpeed   float64
	EnemyWidth    float64
	EnemyHeight   float64
	MaxHealth     int
	SpectatorPos  [3]float64 // Where a dead local player's camera is parked
	SpectatorTilt float64
}

// NetworkConfig contains relay connection defaults.
type NetworkConfig struct {
	DefaultAddress string
	Port           int
	ConnectTimeout time.Duration
	InboxSize      int
	MaxPlayers     int
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	Verbose  bool // Enable debug level logging
	Headless bool // Drive the tick without a window
}

// Config holds general client configuration
type Config struct {
	Width   int
	Height  int
	TickHz  int
	Title   string
	AppName string
}

// Global configuration instances
var C *Config
var Movement MovementConfig
var Bhop BhopConfig
var Weapons []WeaponConfig
var Combat CombatConfig
var Network NetworkConfig
var Debug DebugConfig

// Spawn is where the local player enters the arena.
var Spawn = [3]float64{0, 1, 0}

func init() {
	C = &Config{
		Width:   960,
		Height:  540,
		TickHz:  60,
		Title:   "bhop-mp",
		AppName: "bhop-mp",
	}

	Movement = MovementConfig{
		Acceleration: 150,
		Friction:     80,
		AirFriction:  5,
		MaxSpeed:     15,
		AirControl:   0.33,

		Gravity:    20,
		JumpHeight: 1.2,

		Height:          2,
		CrouchFactor:    0.75,
		ProbeDistance:   0.5,
		FootProbeHeight: 0.5,
		AxisProbeHeight: 1,
		GroundSlack:     0.1,
		SlopeNormalY:    0.7,
		StepHeight:      0.5,

		MouseSensitivity: 40,
		PitchLimit:       90,

		JumpDebounce: 100 * time.Millisecond,
	}

	Bhop = BhopConfig{
		Window:         200 * time.Millisecond,
		BaseBoost:      1.5,
		BoostIncrement: 0.1,
		MaxBoost:       2.0,
		PlainBoost:     1.5,
		AlignThreshold: 0.7,
	}

	Weapons = []WeaponConfig{
		{
			Name:         "base",
			MaxAmmo:      20,
			ReloadTime:   3 * time.Second,
			ShotInterval: 100 * time.Millisecond,
			DamageMin:    10,
			DamageMax:    20,
		},
		{
			Name:         "second",
			MaxAmmo:      20,
			ReloadTime:   3 * time.Second,
			ShotInterval: 100 * time.Millisecond,
			DamageMin:    10,
			DamageMax:    20,
		},
	}

	Combat = CombatConfig{
		MaxRange:      100,
		ReloadStep:    100 * time.Millisecond,
		MuzzleHeight:  2,
		BulletTTL:     2 * time.Second,
		BulletSpeed:   50,
		EnemyWidth:    1,
		EnemyHeight:   2,
		MaxHealth:     100,
		SpectatorPos:  [3]float64{0, 7, -35},
		SpectatorTilt: -45,
	}

	Network = NetworkConfig{
		DefaultAddress: "localhost",
		Port:           8000,
		ConnectTimeout: 5 * time.Second,
		InboxSize:      256,
		MaxPlayers:     16,
	}
}
