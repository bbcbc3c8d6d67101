package components

import "github.com/yohamta/donburi"

// EnemyData identifies a remote player.
type EnemyData struct {
	ID       int    // Session id assigned by the relay
	Username string
}

var Enemy = donburi.NewComponentType[EnemyData]()
