package v1alpha1

import (
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/llm-d/liquid-extraction/pkg/config"
)

// DefaultStages is applied when Spec.Stages is unset.
const DefaultStages int32 = config.DefaultStages

// ExtractionRunSpec defines the inputs of a cross-current extraction run.
type ExtractionRunSpec struct {
	// Datasets locates the paired phase-equilibrium tables.
	// +kubebuilder:validation:Required
	Datasets DatasetSource `json:"datasets"`

	// Feed is the stream entering the first stage on a carrier-free basis.
	// +kubebuilder:validation:Required
	Feed FeedSpec `json:"feed"`

	// Solvent is the fresh solvent fed to every stage.
	// +kubebuilder:validation:Required
	Solvent SolventSpec `json:"solvent"`

	// Stages is the number of equilibrium stages to compute.
	// If not specified, defaults to 4.
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:default=4
	// +optional
	Stages *int32 `json:"stages,omitempty"`

	// Solver overrides solver tunables. Unset fields keep their defaults.
	// +optional
	Solver config.SolverConfig `json:"solver,omitempty"`
}

// DatasetSource names the phase tables of a run. Relative paths are resolved
// against the directory of the manifest.
type DatasetSource struct {
	// RaffinatePhase is the oil-rich phase table (columns A, B, C).
	// +kubebuilder:validation:MinLength=1
	RaffinatePhase string `json:"raffinatePhase"`

	// ExtractPhase is the propane-rich phase table, row-paired with RaffinatePhase.
	// +kubebuilder:validation:MinLength=1
	ExtractPhase string `json:"extractPhase"`
}

// FeedSpec is the feed stream.
type FeedSpec struct {
	// Mass is the carrier-free feed mass.
	// +kubebuilder:validation:Type=number
	Mass float64 `json:"mass"`

	// X is the solute fraction C/(A+C).
	// +kubebuilder:validation:Type=number
	X float64 `json:"x"`

	// N is the carrier ratio B/(A+C).
	// +kubebuilder:validation:Type=number
	// +optional
	N float64 `json:"n,omitempty"`
}

// SolventSpec is the solvent mass flow and its raw composition.
type SolventSpec struct {
	// MassFlow is the total solvent mass per stage.
	// +kubebuilder:validation:Type=number
	MassFlow float64 `json:"massFlow"`

	// Composition holds the A, B and C mass fractions. They must sum to 1.
	Composition Fractions `json:"composition"`
}

// Fractions is a three-component mass-fraction triple.
type Fractions struct {
	// +kubebuilder:validation:Type=number
	A float64 `json:"a"`
	// +kubebuilder:validation:Type=number
	B float64 `json:"b"`
	// +kubebuilder:validation:Type=number
	C float64 `json:"c"`
}

// ExtractionRunStatus holds the outcome of the last run of the manifest.
type ExtractionRunStatus struct {
	// RunID identifies the persisted run, when history is enabled.
	// +optional
	RunID string `json:"runID,omitempty"`

	// CompletedAt is when the run finished, successfully or not.
	// +optional
	CompletedAt *metav1.Time `json:"completedAt,omitempty"`

	// Stages summarizes every solved stage in order.
	// +optional
	Stages []StageStatus `json:"stages,omitempty"`

	// Composite is the combined extract. Nil when the run failed.
	// +optional
	Composite *CompositeStatus `json:"composite,omitempty"`

	// Conditions represent the latest available observations of the run.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// StageStatus is the per-stage summary stored in status.
type StageStatus struct {
	Stage int32 `json:"stage"`
	// X and Y are the raffinate and extract solute fractions of the tie-line.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// RaffinateMass is the carrier-free raffinate passed to the next stage.
	RaffinateMass float64 `json:"raffinateMass"`
	// ExtractMass includes the carrier.
	ExtractMass float64 `json:"extractMass"`
	// ExtractComposition is Y/(1+Ne).
	ExtractComposition float64 `json:"extractComposition"`
}

// CompositeStatus is the mass-weighted combination of all stage extracts.
type CompositeStatus struct {
	TotalExtractMass   float64 `json:"totalExtractMass"`
	ExtractComposition float64 `json:"extractComposition"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=xr
// +kubebuilder:printcolumn:name="Stages",type=integer,JSONPath=".spec.stages"
// +kubebuilder:printcolumn:name="Extract",type=number,JSONPath=".status.composite.totalExtractMass"
// +kubebuilder:printcolumn:name="Solved",type=string,JSONPath=".status.conditions[?(@.type=='Solved')].status"

// ExtractionRun is the Schema for a cross-current extraction run.
type ExtractionRun struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ExtractionRunSpec   `json:"spec,omitempty"`
	Status ExtractionRunStatus `json:"status,omitempty"`
}

// ExtractionRunList contains a list of ExtractionRun resources.
// +kubebuilder:object:root=true
type ExtractionRunList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []ExtractionRun `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ExtractionRun{}, &ExtractionRunList{})
}

// Condition types for ExtractionRun
const (
	// TypeSolved indicates whether every stage of the run was solved.
	TypeSolved = "Solved"
)

// Condition reasons for Solved
const (
	ReasonSolved               = "Solved"
	ReasonInvalidConfiguration = "InvalidConfiguration"
	ReasonRootNotFound         = "RootNotFound"
	ReasonDegenerateBalance    = "DegenerateBalance"
	ReasonAggregationFailed    = "AggregationFailed"
	ReasonRunFailed            = "RunFailed"
)

// StageCount returns Spec.Stages or DefaultStages when unset.
func (r *ExtractionRun) StageCount() int {
	return int(ptr.Deref(r.Spec.Stages, DefaultStages))
}

// Default fills unset optional fields.
func (r *ExtractionRun) Default() {
	if r.Spec.Stages == nil {
		r.Spec.Stages = ptr.To(DefaultStages)
	}
	if r.APIVersion == "" {
		r.APIVersion = GroupVersion.String()
	}
	if r.Kind == "" {
		r.Kind = "ExtractionRun"
	}
}

// SetSolvedCondition records the outcome of a run on the Solved condition.
func (r *ExtractionRun) SetSolvedCondition(status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(&r.Status.Conditions, metav1.Condition{
		Type:               TypeSolved,
		Status:             status,
		ObservedGeneration: r.Generation,
		Reason:             reason,
		Message:            message,
	})
}

// IsSolved reports whether the Solved condition is True.
func (r *ExtractionRun) IsSolved() bool {
	return meta.IsStatusConditionTrue(r.Status.Conditions, TypeSolved)
}
