package combat

// Stage names appearing in dice traces.
const (
	StageResolveAttacks   = "resolve_attacks"
	StageHitRoll          = "hit_roll"
	StageWoundRoll        = "wound_roll"
	StageSaveRoll         = "save_roll"
	StageDamageAllocation = "damage_allocation"
)

// Trace is one stage's dice record for audit and replay consumers.
// Fields irrelevant to a stage are omitted from the encoded form.
type Trace struct {
	Context        string   `json:"context"`
	Stage          string   `json:"stage"`
	Weapon         string   `json:"weapon,omitempty"`
	Threshold      int      `json:"threshold,omitempty"`
	Modifier       int      `json:"modifier,omitempty"`
	Rolls          []int    `json:"rolls,omitempty"`
	Rerolls        []int    `json:"rerolls,omitempty"`
	TotalAttacks   int      `json:"total_attacks,omitempty"`
	Successes      int      `json:"successes"`
	CriticalHits   int      `json:"critical_hits,omitempty"`
	RegularHits    int      `json:"regular_hits,omitempty"`
	SustainedHits  int      `json:"sustained_hits,omitempty"`
	AutoWounds     int      `json:"lethal_hits_auto_wounds,omitempty"`
	CriticalWounds int      `json:"critical_wounds,omitempty"`
	Bypassed       int      `json:"bypassed,omitempty"`
	DamageDealt    int      `json:"damage_dealt,omitempty"`
	FNPIgnored     int      `json:"fnp_ignored,omitempty"`
	ModelsSlain    int      `json:"models_slain,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}
