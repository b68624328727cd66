package physics

import "selection-engine/internal/geom"

// Body is a 3D rigid body with position, velocity, and AABB (from scale).
// Used for dynamic or static objects; static bodies do not move and are not affected by gravity.
type Body struct {
	Position geom.Vec3
	Velocity geom.Vec3
	Scale    geom.Vec3
	Mass     float32
	Static   bool
}

// NewBody returns a body with the given position and scale. Velocity is zero.
// mass is used for collision response; use 1 for default. Static bodies ignore gravity and velocity.
func NewBody(position, scale geom.Vec3, mass float32, static bool) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		Position: position,
		Scale:    scale,
		Mass:     mass,
		Static:   static,
	}
}

// AABB returns the body's box: centered on Position, full extents from Scale.
func (b *Body) AABB() geom.AABB {
	return geom.FromCenterScale(b.Position, b.Scale)
}
