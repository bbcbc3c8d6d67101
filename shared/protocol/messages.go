// Package protocol defines the messages exchanged between game clients and
// the relay. It must have zero dependencies on ebiten or any graphics library
// so the relay binary stays headless. Messages are encoded by the necs router.
package protocol

import "github.com/go-gl/mathgl/mgl64"

// Object discriminators carried by Message.
const (
	ObjectPlayer       = "player"
	ObjectBullet       = "bullet"
	ObjectHealthUpdate = "health_update"
)

// JoinRequest is sent by a client after connecting to enter the session.
type JoinRequest struct {
	Username string
	Position mgl64.Vec3
	Health   int
}

// JoinAccepted is sent by the relay with the client's session id.
type JoinAccepted struct {
	ID int
}

// JoinRejected is sent by the relay when a join cannot be honored.
type JoinRejected struct {
	Reason string
}

// Message is the single replicated event type. Which fields are meaningful
// depends on Object:
//
//	player         ID, Joined, Left, Username, Position, Rotation, Health
//	bullet         ID (shooter), Position, Direction, XDirection, Damage
//	health_update  ID (target), Health
type Message struct {
	Object     string
	ID         int
	Joined     bool
	Left       bool
	Username   string
	Position   mgl64.Vec3
	Rotation   float64
	Health     int
	Direction  float64 // Bullet yaw in degrees
	XDirection float64 // Bullet pitch in degrees, positive looks down
	Damage     int
}

// Transform is the replicated pose of a player.
type Transform struct {
	Position mgl64.Vec3
	Rotation float64 // Yaw in degrees
}

// BulletSpawn describes a fired bullet for peers to draw.
type BulletSpawn struct {
	Position   mgl64.Vec3
	Direction  float64
	XDirection float64
	Damage     int
}

// PlayerUpdate builds the transform message for id.
func PlayerUpdate(id int, t Transform) Message {
	return Message{Object: ObjectPlayer, ID: id, Position: t.Position, Rotation: t.Rotation}
}

// PlayerJoined builds the join announcement for id.
func PlayerJoined(id int, username string, position mgl64.Vec3, health int) Message {
	return Message{
		Object:   ObjectPlayer,
		ID:       id,
		Joined:   true,
		Username: username,
		Position: position,
		Health:   health,
	}
}

// PlayerLeft builds the leave announcement for id.
func PlayerLeft(id int) Message {
	return Message{Object: ObjectPlayer, ID: id, Left: true}
}

// Bullet builds the bullet message fired by shooter.
func Bullet(shooter int, b BulletSpawn) Message {
	return Message{
		Object:     ObjectBullet,
		ID:         shooter,
		Position:   b.Position,
		Direction:  b.Direction,
		XDirection: b.XDirection,
		Damage:     b.Damage,
	}
}

// HealthUpdate builds the health message for target.
func HealthUpdate(target, health int) Message {
	return Message{Object: ObjectHealthUpdate, ID: target, Health: health}
}

// Transform returns the pose carried by a player message.
func (m Message) Transform() Transform {
	return Transform{Position: m.Position, Rotation: m.Rotation}
}

// BulletSpawn returns the bullet carried by a bullet message.
func (m Message) BulletSpawn() BulletSpawn {
	return BulletSpawn{
		Position:   m.Position,
		Direction:  m.Direction,
		XDirection: m.XDirection,
		Damage:     m.Damage,
	}
}
