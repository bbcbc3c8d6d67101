package components

import "github.com/yohamta/donburi"

type HealthData struct {
	Current int
	Max     int
}

// Set stores v clamped to [0, Max].
func (h *HealthData) Set(v int) {
	h.Current = max(0, min(v, h.Max))
}

var Health = donburi.NewComponentType[HealthData]()
