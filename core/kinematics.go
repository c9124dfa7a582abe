package core

import (
	"math"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// KinematicModel maps elapsed-time fraction t (0..1) to path-progress
// fraction s (0..1) for a given speed factor. Implementations are pure; a
// model can be shared across agents and workers.
type KinematicModel interface {
	Progress(t, speedFactor float64) float64
}

// KinematicsConfig exposes the oscillation coefficients of the two
// oscillating profiles. The frontend this engine stands in for used two
// slightly different frequencies for the social profile in different call
// sites; the frequency is configuration here, not a fixed law.
type KinematicsConfig struct {
	SocialFrequency      float64 // default 5
	SocialAmplitude      float64 // default 0.1
	CentrifugalFrequency float64 // default 10
	CentrifugalAmplitude float64 // default 0.2
}

// DefaultKinematicsConfig returns the stock coefficients.
func DefaultKinematicsConfig() KinematicsConfig {
	return KinematicsConfig{
		SocialFrequency:      5,
		SocialAmplitude:      0.1,
		CentrifugalFrequency: 10,
		CentrifugalAmplitude: 0.2,
	}
}

// SpeedModel is near-linear progress with a mild overshoot clamp.
type SpeedModel struct{}

func (SpeedModel) Progress(t, speedFactor float64) float64 {
	return clampProgress(t * 1.2 * speedFactor)
}

// SpeedModelV2 is a raised-cosine ease-in/ease-out.
type SpeedModelV2 struct{}

func (SpeedModelV2) Progress(t, speedFactor float64) float64 {
	return clampProgress(0.5 * (1 - math.Cos(math.Pi*t)) * speedFactor)
}

// CentrifugalModel superimposes a fast speed oscillation on linear
// progress.
type CentrifugalModel struct {
	Frequency, Amplitude float64
}

func (m CentrifugalModel) Progress(t, speedFactor float64) float64 {
	return clampProgress(t * speedFactor * (1 + m.Amplitude*math.Sin(m.Frequency*t)))
}

// SocialModel is linear progress with a slow, gentle oscillation.
type SocialModel struct {
	Frequency, Amplitude float64
}

func (m SocialModel) Progress(t, speedFactor float64) float64 {
	return clampProgress(t * (1 + m.Amplitude*math.Sin(m.Frequency*t)) * speedFactor)
}

// NewKinematicModel chooses the model for a profile. The profile enum is
// closed; anything unrecognized behaves as the social profile, which is
// also what ParseProfile yields for unknown names.
func NewKinematicModel(p model.KinematicProfile, cfg KinematicsConfig) KinematicModel {
	switch p {
	case model.ProfileSpeed:
		return SpeedModel{}
	case model.ProfileSpeedV2:
		return SpeedModelV2{}
	case model.ProfileCentrifugal:
		return CentrifugalModel{Frequency: cfg.CentrifugalFrequency, Amplitude: cfg.CentrifugalAmplitude}
	default:
		return SocialModel{Frequency: cfg.SocialFrequency, Amplitude: cfg.SocialAmplitude}
	}
}

// clampProgress bounds s to [0, 1]. Negative speed factors freeze agents
// rather than walking them backwards.
func clampProgress(s float64) float64 {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
