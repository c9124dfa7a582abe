package model

import "strings"

// KinematicProfile names one of the movement models the synthesizer can
// imitate. The names match the model identifiers of the real simulation
// backend so scenes are portable between the two.
type KinematicProfile string

const (
	ProfileSpeed       KinematicProfile = "CollisionFreeSpeedModel"
	ProfileSpeedV2     KinematicProfile = "CollisionFreeSpeedModelV2"
	ProfileCentrifugal KinematicProfile = "GeneralizedCentrifugalForceModel"
	ProfileSocial      KinematicProfile = "SocialForceModel"
)

// ParseProfile maps a model name to a KinematicProfile. Unknown names fall
// back to the social-force profile, matching the behavior of the real
// backend when handed an unrecognized model.
func ParseProfile(name string) KinematicProfile {
	switch strings.TrimSpace(name) {
	case string(ProfileSpeed):
		return ProfileSpeed
	case string(ProfileSpeedV2):
		return ProfileSpeedV2
	case string(ProfileCentrifugal):
		return ProfileCentrifugal
	default:
		return ProfileSocial
	}
}

// Scene is the full set of drawn elements plus the scalar parameters for a
// single simulation run. It is owned by the caller and borrowed read-only
// by the engine.
type Scene struct {
	Elements []Element

	// Duration is the total simulated time in seconds.
	Duration float64
	// TimeStep is the size of one discrete step in seconds.
	TimeStep float64
	// SpeedFactor is the simulation speed multiplier applied by every
	// kinematic profile.
	SpeedFactor float64
	// Profile selects the kinematic profile.
	Profile KinematicProfile
}

// ElementsOfKind returns all elements with the given kind, in input order.
func (s *Scene) ElementsOfKind(k ElementKind) []Element {
	var out []Element
	for _, e := range s.Elements {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
