package engine

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Roller produces the random draws used to resolve a heist. Outcomes
// gate real value transfer, so the production implementation must use a
// cryptographically strong entropy source; a client-supplied seed or
// outcome is never trusted.
type Roller interface {
	// Uniform returns a uniform value in [0, 1)
	Uniform() float64

	// UniformInRange returns a uniform value in [min, max)
	UniformInRange(min, max float64) float64

	// UniformInt returns a uniform integer in [min, max] inclusive
	UniformInt(min, max int) int

	// Chance returns true with probability p
	Chance(p float64) bool
}

// CryptoRoller implements Roller on crypto/rand
type CryptoRoller struct{}

// NewCryptoRoller creates a Roller backed by the OS entropy source
func NewCryptoRoller() *CryptoRoller {
	return &CryptoRoller{}
}

func (r *CryptoRoller) Uniform() float64 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failure means the process is in a broken state;
		// settling a heist with weak entropy is not an option.
		panic(fmt.Sprintf("entropy source failed: %v", err))
	}
	return float64(binary.BigEndian.Uint32(buf[:])) / (1 << 32)
}

func (r *CryptoRoller) UniformInRange(min, max float64) float64 {
	return r.Uniform()*(max-min) + min
}

func (r *CryptoRoller) UniformInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + int(r.Uniform()*float64(max-min+1))
}

func (r *CryptoRoller) Chance(p float64) bool {
	return r.Uniform() < p
}
