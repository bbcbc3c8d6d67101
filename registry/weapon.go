package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/bhop-mp/config"
)

type WeaponState int

const (
	WeaponIdle WeaponState = iota
	WeaponEmpty
	WeaponReloading
)

func (s WeaponState) String() string {
	switch s {
	case WeaponIdle:
		return "idle"
	case WeaponEmpty:
		return "empty"
	case WeaponReloading:
		return "reloading"
	default:
		return "unknown"
	}
}

// Weapon is one inventory slot. Every field is guarded by mu because the
// tick and the weapon's reload task both touch it.
type Weapon struct {
	mu sync.Mutex

	name         string
	ammo         int
	maxAmmo      int
	remaining    time.Duration
	reloadTime   time.Duration
	shotInterval time.Duration
	damageMin    int
	damageMax    int
	reloading    bool

	lastShot time.Duration
	hasShot  bool
}

// WeaponStatus is a point-in-time copy of a weapon.
type WeaponStatus struct {
	Name       string
	State      WeaponState
	Ammo       int
	MaxAmmo    int
	Remaining  time.Duration
	ReloadTime time.Duration
	Reloading  bool
}

// Progress is the reload completion in [0, 1]; zero when not reloading.
func (s WeaponStatus) Progress() float64 {
	if !s.Reloading || s.ReloadTime <= 0 {
		return 0
	}
	p := 1 - float64(s.Remaining)/float64(s.ReloadTime)
	return max(0, min(p, 1))
}

// FireResult reports what a trigger pull did.
type FireResult struct {
	Fired         bool
	ReloadStarted bool
}

func NewWeapon(c config.WeaponConfig) *Weapon {
	return &Weapon{
		name:         c.Name,
		ammo:         c.MaxAmmo,
		maxAmmo:      c.MaxAmmo,
		remaining:    c.ReloadTime,
		reloadTime:   c.ReloadTime,
		shotInterval: c.ShotInterval,
		damageMin:    c.DamageMin,
		damageMax:    c.DamageMax,
	}
}

func (w *Weapon) Name() string { return w.name }

// DamageRange returns the inclusive damage bounds.
func (w *Weapon) DamageRange() (int, int) {
	return w.damageMin, w.damageMax
}

// TryFire pulls the trigger at simulation time now. Reloading swallows the
// pull. An empty weapon starts reloading instead of firing. Firing the last
// round starts reloading too.
func (w *Weapon) TryFire(now time.Duration) FireResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reloading {
		return FireResult{}
	}
	if w.ammo <= 0 {
		w.beginReloadLocked()
		return FireResult{ReloadStarted: true}
	}
	if w.hasShot && now-w.lastShot < w.shotInterval {
		return FireResult{}
	}

	w.ammo--
	w.lastShot = now
	w.hasShot = true

	res := FireResult{Fired: true}
	if w.ammo == 0 {
		w.beginReloadLocked()
		res.ReloadStarted = true
	}
	return res
}

func (w *Weapon) beginReloadLocked() {
	w.reloading = true
	w.remaining = w.reloadTime
}

// StepReload advances a reload by step. A weapon that is no longer active is
// reset instead. It reports whether the reload is over.
func (w *Weapon) StepReload(step time.Duration, active bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.reloading {
		return true
	}

	w.remaining -= step
	if !active {
		w.resetLocked()
		return true
	}
	if w.remaining <= 0 {
		w.ammo = w.maxAmmo
		w.resetLocked()
		return true
	}
	return false
}

// CancelReload abandons a reload without refilling.
func (w *Weapon) CancelReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Weapon) resetLocked() {
	w.reloading = false
	w.remaining = w.reloadTime
}

func (w *Weapon) Status() WeaponStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := WeaponIdle
	switch {
	case w.reloading:
		state = WeaponReloading
	case w.ammo <= 0:
		state = WeaponEmpty
	}
	return WeaponStatus{
		Name:       w.name,
		State:      state,
		Ammo:       w.ammo,
		MaxAmmo:    w.maxAmmo,
		Remaining:  w.remaining,
		ReloadTime: w.reloadTime,
		Reloading:  w.reloading,
	}
}

// Inventory holds the weapon slots. The active index is atomic so reload
// tasks can check it without the tick.
type Inventory struct {
	weapons []*Weapon
	active  atomic.Int32
}

func NewInventory(cfgs []config.WeaponConfig) *Inventory {
	inv := &Inventory{}
	for _, c := range cfgs {
		inv.weapons = append(inv.weapons, NewWeapon(c))
	}
	return inv
}

func (inv *Inventory) Len() int { return len(inv.weapons) }

func (inv *Inventory) ActiveIndex() int { return int(inv.active.Load()) }

// Active returns the weapon in hand, or nil for an empty inventory.
func (inv *Inventory) Active() *Weapon {
	return inv.Weapon(inv.ActiveIndex())
}

// Weapon returns slot i, or nil when i is out of range.
func (inv *Inventory) Weapon(i int) *Weapon {
	if i < 0 || i >= len(inv.weapons) {
		return nil
	}
	return inv.weapons[i]
}

func (inv *Inventory) IsActive(w *Weapon) bool {
	return w != nil && inv.Active() == w
}

// Select makes slot i active. It returns the previously active weapon and
// false when i is out of range or already active.
func (inv *Inventory) Select(i int) (*Weapon, bool) {
	if i < 0 || i >= len(inv.weapons) {
		return nil, false
	}
	prev := inv.active.Swap(int32(i))
	if int(prev) == i {
		return nil, false
	}
	return inv.Weapon(int(prev)), true
}
