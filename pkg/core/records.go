package core

// StageRecord is the diagnostic output of one equilibrium stage.
type StageRecord struct {
	// Stage is the 1-based stage index.
	Stage   int          `json:"stage" yaml:"stage"`
	Feed    Stream       `json:"feed" yaml:"feed"`
	Mixture MixturePoint `json:"mixture" yaml:"mixture"`
	TieLine TieLine      `json:"tieLine" yaml:"tieLine"`
	Balance Balance      `json:"balance" yaml:"balance"`
	// ExtractComposition is the extract solute fraction on a total basis,
	// Y/(1+Ne).
	ExtractComposition float64 `json:"extractComposition" yaml:"extractComposition"`
	// RaffinateComposition is the raffinate solute fraction on a total basis,
	// X/(1+Nr).
	RaffinateComposition float64 `json:"raffinateComposition" yaml:"raffinateComposition"`
}

// NewStageRecord assembles a record from the stage inputs and outputs.
func NewStageRecord(stage int, feed Stream, m MixturePoint, tl TieLine, b Balance) StageRecord {
	return StageRecord{
		Stage:                stage,
		Feed:                 feed,
		Mixture:              m,
		TieLine:              tl,
		Balance:              b,
		ExtractComposition:   tl.Extract.X / (1 + tl.Extract.N),
		RaffinateComposition: tl.Raffinate.X / (1 + tl.Raffinate.N),
	}
}

// ExtractMass returns the carrier-included extract mass of the stage.
func (r StageRecord) ExtractMass() float64 {
	return r.Balance.ExtractMass
}

// CompositeResult combines all stage extracts.
type CompositeResult struct {
	TotalExtractMass   float64 `json:"totalExtractMass" yaml:"totalExtractMass"`
	ExtractComposition float64 `json:"extractComposition" yaml:"extractComposition"`
}
