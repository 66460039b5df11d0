package game

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/gallery/pkg/level"
	"github.com/taigrr/gallery/pkg/math3d"
	"github.com/taigrr/gallery/pkg/render"
)

// maxLook limits how far the player can look up or down.
const maxLook = 1.2

// axis is one input channel. Input sets Velocity; once input stops a
// critically damped spring brings it back to rest.
type axis struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64
}

func newAxis(fps int) axis {
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *axis) settle() {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// Player is the first-person controller. Position is the point under the
// player's feet.
type Player struct {
	Position math3d.Vec3
	Yaw      float64
	Pitch    float64

	walk, strafe, turn, look axis

	dt        float64
	speed     float64
	turnSpeed float64
	radius    float64
	eye       float64
}

// NewPlayer creates a player standing at start facing -Z.
func NewPlayer(cfg Config, start math3d.Vec3) *Player {
	return &Player{
		Position:  start,
		walk:      newAxis(cfg.FPS),
		strafe:    newAxis(cfg.FPS),
		turn:      newAxis(cfg.FPS),
		look:      newAxis(cfg.FPS),
		dt:        1 / float64(cfg.FPS),
		speed:     cfg.MoveSpeed,
		turnSpeed: cfg.TurnSpeed,
		radius:    cfg.PlayerRadius,
		eye:       cfg.EyeHeight,
	}
}

// Walk sets forward speed as a fraction of full speed; negative backs up.
func (p *Player) Walk(amount float64) { p.walk.Velocity = amount * p.speed }

// Strafe sets sideways speed; positive moves right.
func (p *Player) Strafe(amount float64) { p.strafe.Velocity = amount * p.speed }

// Turn sets the turn rate; positive turns left.
func (p *Player) Turn(amount float64) { p.turn.Velocity = amount * p.turnSpeed }

// Look sets the pitch rate; positive looks up.
func (p *Player) Look(amount float64) { p.look.Velocity = amount * p.turnSpeed }

// Heading returns the horizontal facing direction.
func (p *Player) Heading() math3d.Vec3 {
	s, c := math.Sincos(p.Yaw)
	return math3d.V3(-s, 0, -c)
}

// Update advances the player by one frame. Moves that would bring the
// player within its radius of a wall are reduced to whichever single axis
// stays clear, so the player slides along walls.
func (p *Player) Update(lv *level.Level) {
	p.Yaw += p.turn.Velocity * p.dt
	p.Pitch = max(-maxLook, min(maxLook, p.Pitch+p.look.Velocity*p.dt))

	s, c := math.Sincos(p.Yaw)
	heading := math3d.V3(-s, 0, -c)
	right := math3d.V3(c, 0, -s)
	step := heading.Scale(p.walk.Velocity * p.dt).Add(right.Scale(p.strafe.Velocity * p.dt))
	p.move(lv, step)

	p.walk.settle()
	p.strafe.settle()
	p.turn.settle()
	p.look.settle()
}

func (p *Player) move(lv *level.Level, step math3d.Vec3) {
	if step.LenSq() == 0 {
		return
	}
	for _, s := range []math3d.Vec3{step, {X: step.X}, {Z: step.Z}} {
		next := p.Position.Add(s)
		if !lv.Blocked(next, p.radius) {
			p.Position = next
			return
		}
	}
}

// Eye returns the camera position.
func (p *Player) Eye() math3d.Vec3 {
	return p.Position.Add(math3d.V3(0, p.eye, 0))
}

// Apply places the camera at the player's eye.
func (p *Player) Apply(c *render.Camera) {
	c.SetPosition(p.Eye())
	c.SetRotation(p.Pitch, p.Yaw)
}

// Reset puts the player back at start, facing -Z and at rest.
func (p *Player) Reset(start math3d.Vec3) {
	p.Position = start
	p.Yaw, p.Pitch = 0, 0
	for _, a := range []*axis{&p.walk, &p.strafe, &p.turn, &p.look} {
		a.Velocity, a.accel = 0, 0
	}
}
