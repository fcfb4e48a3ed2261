package game

import "time"

// Simulation constants. The chaos thresholds are literal tick counts; at the
// default tick period 200 ticks is 10s and 250 ticks is 12.5s.
const (
	TickPeriod = 50 * time.Millisecond

	FieldWidth  = 280.0
	FieldHeight = 480.0 // items falling past this are pruned

	SpawnChance     = 0.02
	EggProbability  = 0.7
	FallSpeed       = 2.0
	ChaosMultiplier = 3

	ChaosStartTick = 200
	ChaosEndTick   = 250

	InitialLives = 3
	EggPoints    = 10
)

// speedFactor is the multiplier applied to spawn rate and fall speed.
func speedFactor(chaos bool) float64 {
	if chaos {
		return ChaosMultiplier
	}
	return 1
}
