package engine

// Extrema is a per-bin envelope of a curve.
type Extrema struct {
	Index []int     `json:"index"`
	Value []float64 `json:"value"`
}

// Analysis holds the scalars extracted from a realised inventory curve.
type Analysis struct {
	Maxima Extrema `json:"maxima"`
	Minima Extrema `json:"minima"`

	// DoublingTime is +Inf when the store never recovers its initial
	// inventory; DoublingIndex is then -1.
	DoublingTime  float64 `json:"doubling_time"`
	DoublingIndex int     `json:"doubling_index"`

	InflectionTime  float64 `json:"inflection_time"`
	InflectionIndex int     `json:"inflection_index"`
}

// Result is the outcome of a Model run. Fine-axis series share Time;
// coarse-axis series share Coarse.
type Result struct {
	Analysis

	// Time is the fine axis [yr].
	Time []float64

	// Inventory is the realised unsequestered inventory m_T + I_tfv_min [kg].
	Inventory []float64

	// Store is the raw store inventory m_T of the last iteration [kg].
	Store []float64

	// Coarse is the lifecycle axis [yr].
	Coarse []float64

	// Stage inventories [kg].
	Plasma  []float64 // coarse
	Blanket []float64 // coarse
	TFV     []float64 // fine
	Stack   []float64 // fine

	// Ideal is the inventory of a plant without sequestration, started from
	// StartupInventory [kg, coarse].
	Ideal []float64

	// Totals over the lifetime [kg].
	Bred     float64
	Released float64
	Burnt    float64

	// StartupInventory is the converged store requirement plus the TFV
	// fountain inventory [kg].
	StartupInventory float64

	// ReleaseRate is the peak environmental release [g/yr].
	ReleaseRate   float64
	MaxLoadFactor float64

	Iterations int
	Converged  bool

	// Seeds and Residuals hold one entry per network evaluation.
	Seeds     []float64
	Residuals []float64
}
