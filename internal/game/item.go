package game

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// ItemType distinguishes beneficial from harmful falling items.
type ItemType string

const (
	Egg       ItemType = "egg"
	RottenEgg ItemType = "rotten_egg"
)

// Item is a falling collectible. Y starts at 0 and only grows.
type Item struct {
	ID   string   `json:"id"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Type ItemType `json:"type"`
}

// Rand is the source of randomness used by the simulation.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG-backed generator seeded from the clock.
func NewRand() Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// newItem draws a fresh item at the top of the field.
func newItem(r Rand) *Item {
	x := r.Float64() * FieldWidth
	typ := RottenEgg
	if r.Float64() < EggProbability {
		typ = Egg
	}
	return &Item{
		ID:   uuid.NewString(),
		X:    x,
		Y:    0,
		Type: typ,
	}
}
