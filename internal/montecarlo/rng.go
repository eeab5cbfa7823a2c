package montecarlo

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

const (
	// SubsystemCoefficients draws the structural coefficients of a trial.
	SubsystemCoefficients = "coefficients"

	// SubsystemInitial perturbs the initial conditions of both sides.
	SubsystemInitial = "initial"

	// SubsystemSchedule draws the scenario schedule's random targets.
	SubsystemSchedule = "schedule"
)

// TrialSeed derives the seed of trial i from the ensemble seed. Trials are
// reproducible in isolation regardless of worker count or completion order.
func TrialSeed(master uint64, i int) uint64 {
	return master ^ fnv1a64(fmt.Sprintf("trial_%d", i))
}

// PartitionedRNG hands out one isolated, deterministically seeded stream per
// subsystem, so adding a draw to one subsystem never shifts another's.
//
// Not safe for concurrent use; each trial owns its own instance.
type PartitionedRNG struct {
	seed       uint64
	subsystems map[string]*rand.Rand
}

func NewPartitionedRNG(seed uint64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the cached stream for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewPCG(p.seed, fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

func (p *PartitionedRNG) Seed() uint64 {
	return p.seed
}

func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
