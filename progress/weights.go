package progress

import (
	"lms/config"
	"math"
)

// Policy carries the aggregation weights and thresholds. The exact constants
// drifted across schema revisions of this product, so they are configuration
// rather than code; DefaultPolicy matches the surviving revision.
type Policy struct {
	// Courses with a simulation component
	ContentWeightSim float64
	SimulationWeight float64
	TestWeightSim    float64

	// Courses without a simulation component
	ContentWeight float64
	TestWeight    float64

	PassThreshold   float64
	CompletionFloor float64 // percentages at or above this normalize to 100
}

func DefaultPolicy() Policy {
	return Policy{
		ContentWeightSim: 0.5,
		SimulationWeight: 0.3,
		TestWeightSim:    0.2,
		ContentWeight:    0.8,
		TestWeight:       0.2,
		PassThreshold:    60,
		CompletionFloor:  99,
	}
}

// PolicyFromConfig builds the policy from loaded app configuration
func PolicyFromConfig() Policy {
	if config.AppConfig == nil {
		return DefaultPolicy()
	}
	return Policy{
		ContentWeightSim: config.AppConfig.ContentWeightSim,
		SimulationWeight: config.AppConfig.SimulationWeight,
		TestWeightSim:    config.AppConfig.TestWeightSim,
		ContentWeight:    config.AppConfig.ContentWeight,
		TestWeight:       config.AppConfig.TestWeight,
		PassThreshold:    config.AppConfig.PassThreshold,
		CompletionFloor:  config.AppConfig.CompletionFloor,
	}
}

// Normalize rounds to 2 decimals and snaps near-complete percentages to 100.
// Rounding artifacts from weighted averages must not strand a student at
// 99.99 forever.
func (p Policy) Normalize(pct float64) float64 {
	pct = round2(pct)
	if pct >= p.CompletionFloor {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
