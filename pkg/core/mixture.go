package core

// MixturePoint is the combined feed and solvent inside one stage.
type MixturePoint struct {
	Mass float64 `json:"mass" yaml:"mass"`
	X    float64 `json:"x" yaml:"x"`
	N    float64 `json:"n" yaml:"n"`
}

// ComputeMixture combines a feed stream and the carrier-free solvent into a
// mixture point. Total, solute and carrier masses are each conserved.
func ComputeMixture(feed Stream, solvent EffectiveSolvent) (MixturePoint, error) {
	sPrime := solvent.CarrierFreeMass()
	mass := feed.Mass + sPrime
	if mass == 0 || !finite(mass) {
		return MixturePoint{}, NewConfigurationError("mixture.mass",
			"feed and solvent carrier-free masses sum to %g", mass)
	}
	return MixturePoint{
		Mass: mass,
		X:    (feed.Mass*feed.X + sPrime*solvent.Ys) / mass,
		N:    (feed.Mass*feed.N + sPrime*solvent.Ns) / mass,
	}, nil
}
