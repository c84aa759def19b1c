package geometry

// TerrainType identifies a terrain feature's ruleset class. Values not
// listed here still parse; anything that is not area terrain and not
// explicitly unknown or impassable behaves as a blocking feature.
type TerrainType string

const (
	TypeRuins       TerrainType = "ruins"
	TypeObstacle    TerrainType = "obstacle"
	TypeBarricade   TerrainType = "barricade"
	TypeWoods       TerrainType = "woods"
	TypeCrater      TerrainType = "crater"
	TypeAreaTerrain TerrainType = "area_terrain"
	TypeForest      TerrainType = "forest"
	TypeImpassable  TerrainType = "impassable"
	TypeUnknown     TerrainType = "unknown"
)

// CoverClass partitions terrain by its cover semantics.
type CoverClass int

const (
	// CoverNone never grants cover.
	CoverNone CoverClass = iota
	// CoverBlocking grants cover to targets within or behind the footprint.
	CoverBlocking
	// CoverArea grants cover only to targets within the footprint.
	CoverArea
)

// Class returns the cover semantics for the terrain type.
func (t TerrainType) Class() CoverClass {
	switch t {
	case TypeWoods, TypeCrater, TypeAreaTerrain, TypeForest:
		return CoverArea
	case TypeImpassable, TypeUnknown, "":
		return CoverNone
	default:
		return CoverBlocking
	}
}

// HeightCategory buckets terrain heights for sight blocking.
type HeightCategory string

const (
	HeightLow    HeightCategory = "low"
	HeightMedium HeightCategory = "medium"
	HeightTall   HeightCategory = "tall"
)

// Terrain heights in inches per category, and the default model heights
// used when a combatant carries no explicit override.
const (
	LowInches    = 1.5
	MediumInches = 3.5
	TallInches   = 6.0

	// TallModelInches is the eye height of MONSTER, VEHICLE and TITANIC
	// models, which see over medium terrain.
	TallModelInches = 5.0
	// InfantryInches is the default height of everything else.
	InfantryInches = 2.0
)

// Inches returns the physical height for a category. A missing or
// unrecognized category is treated as tall: blocking sight is the safe
// failure mode for malformed terrain data.
func (h HeightCategory) Inches() float64 {
	switch h {
	case HeightLow:
		return LowInches
	case HeightMedium:
		return MediumInches
	default:
		return TallInches
	}
}

// Feature is one terrain piece on the board.
type Feature struct {
	ID        string         `json:"id" yaml:"id"`
	Type      TerrainType    `json:"type" yaml:"type"`
	Height    HeightCategory `json:"height_category" yaml:"height_category"`
	Footprint Polygon        `json:"footprint" yaml:"footprint"`
}

// Board is the full terrain set for a battle.
type Board struct {
	Features []Feature `json:"features" yaml:"features"`
}

// Combatant is the geometric view of a model: where it stands, its base
// footprint, and how tall it is. A nil Base means no shape data was
// supplied and only the low-fidelity sight path can be used.
type Combatant struct {
	Pos    Point
	Base   *Shape
	Height float64
}

// height returns the combatant's height, defaulting to infantry.
func (c Combatant) height() float64 {
	if c.Height > 0 {
		return c.Height
	}
	return InfantryInches
}
