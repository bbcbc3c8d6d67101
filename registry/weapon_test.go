package registry

import (
	"testing"
	"time"

	"github.com/automoto/bhop-mp/config"
)

func testWeapon(ammo int) *Weapon {
	w := NewWeapon(config.WeaponConfig{
		Name:         "test",
		MaxAmmo:      20,
		ReloadTime:   3 * time.Second,
		ShotInterval: 100 * time.Millisecond,
		DamageMin:    10,
		DamageMax:    20,
	})
	w.ammo = ammo
	return w
}

func TestFireLastRoundStartsReload(t *testing.T) {
	w := testWeapon(1)

	res := w.TryFire(0)
	if !res.Fired || !res.ReloadStarted {
		t.Fatalf("result = %+v, want fired and reload", res)
	}
	st := w.Status()
	if st.Ammo != 0 || !st.Reloading || st.Remaining != st.ReloadTime || st.State != WeaponReloading {
		t.Fatalf("status = %+v", st)
	}

	if res := w.TryFire(time.Second); res.Fired || res.ReloadStarted {
		t.Fatalf("fire while reloading = %+v, want no-op", res)
	}
}

func TestFireOnEmptyStartsReloadWithoutShot(t *testing.T) {
	w := testWeapon(0)
	if st := w.Status(); st.State != WeaponEmpty {
		t.Fatalf("state = %v, want empty", st.State)
	}

	res := w.TryFire(0)
	if res.Fired || !res.ReloadStarted {
		t.Fatalf("result = %+v", res)
	}
	if st := w.Status(); st.Ammo != 0 {
		t.Fatalf("ammo = %d", st.Ammo)
	}
}

func TestShotInterval(t *testing.T) {
	w := testWeapon(5)

	if !w.TryFire(0).Fired {
		t.Fatalf("first shot should fire")
	}
	if w.TryFire(50 * time.Millisecond).Fired {
		t.Fatalf("shot inside interval fired")
	}
	if !w.TryFire(100 * time.Millisecond).Fired {
		t.Fatalf("shot after interval should fire")
	}
	if st := w.Status(); st.Ammo != 3 {
		t.Fatalf("ammo = %d, want 3", st.Ammo)
	}
}

func TestStepReloadCompletes(t *testing.T) {
	w := testWeapon(1)
	w.TryFire(0)

	steps := 0
	for !w.StepReload(100*time.Millisecond, true) {
		steps++
		if steps > 100 {
			t.Fatalf("reload never finished")
		}
	}
	if steps != 29 {
		t.Fatalf("finished after %d unfinished steps, want 29", steps)
	}
	st := w.Status()
	if st.Ammo != st.MaxAmmo || st.Reloading || st.Progress() != 0 {
		t.Fatalf("status = %+v", st)
	}
}

func TestStepReloadInactiveResets(t *testing.T) {
	w := testWeapon(1)
	w.TryFire(0)
	w.StepReload(100*time.Millisecond, true)

	if !w.StepReload(100*time.Millisecond, false) {
		t.Fatalf("inactive step should end the reload")
	}
	st := w.Status()
	if st.Reloading || st.Remaining != st.ReloadTime || st.Ammo != 0 {
		t.Fatalf("status = %+v", st)
	}
}

func TestInventorySelect(t *testing.T) {
	inv := NewInventory(config.Weapons)

	if _, ok := inv.Select(0); ok {
		t.Fatalf("selecting the active slot should report false")
	}
	if _, ok := inv.Select(len(config.Weapons)); ok {
		t.Fatalf("out of range slot accepted")
	}
	prev, ok := inv.Select(1)
	if !ok || prev != inv.Weapon(0) {
		t.Fatalf("select 1 = %v %v", prev, ok)
	}
	if inv.ActiveIndex() != 1 || !inv.IsActive(inv.Weapon(1)) {
		t.Fatalf("active = %d", inv.ActiveIndex())
	}
}

func TestProgress(t *testing.T) {
	st := WeaponStatus{Reloading: true, Remaining: time.Second, ReloadTime: 4 * time.Second}
	if p := st.Progress(); p != 0.75 {
		t.Fatalf("progress = %v", p)
	}
}
