package steering

import "math"

// Params tunes movement and avoidance. Angles are in radians.
type Params struct {
	Speed           float64 // nominal pixels per tick
	ArriveTolerance float64 // distance at which the destination counts as reached
	RayLength       float64
	ConeAngle       float64 // full opening of the vision cone
	TurnUnit        float64
	MaxAngle        float64
	Decay           float64 // relaxation per tick when nothing is seen
	FrameEvery      int     // moving ticks per animation frame
	Frames          int     // animation frames per facing
	StuckTicks      int     // motionless ticks before a path is given up; 0 disables
}

// DefaultParams returns the parameters used when no configuration is given.
func DefaultParams() Params {
	return Params{
		Speed:           2,
		ArriveTolerance: 3,
		RayLength:       24,
		ConeAngle:       math.Pi / 3,
		TurnUnit:        math.Pi / 18,
		MaxAngle:        math.Pi / 3,
		Decay:           math.Pi / 90,
		FrameEvery:      4,
		Frames:          3,
		StuckTicks:      30,
	}
}
