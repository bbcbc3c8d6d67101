package tags

import "github.com/yohamta/donburi"

var (
	Enemy  = donburi.NewTag().SetName("Enemy")
	Bullet = donburi.NewTag().SetName("Bullet")
)
