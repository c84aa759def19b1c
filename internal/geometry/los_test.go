package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func squareFeature(id string, t TerrainType, h HeightCategory, minX, minY, maxX, maxY float64) Feature {
	return Feature{
		ID:     id,
		Type:   t,
		Height: h,
		Footprint: Polygon{
			{X: minX, Y: minY},
			{X: maxX, Y: minY},
			{X: maxX, Y: maxY},
			{X: minX, Y: maxY},
		},
	}
}

func infantryAt(x, y float64) Combatant {
	return Combatant{
		Pos:    Point{X: x, Y: y},
		Base:   &Shape{Form: FormCircular, Diameter: 1.26}, // 32mm
		Height: InfantryInches,
	}
}

func TestTallTerrainBlocksEveryone(t *testing.T) {
	ruins := squareFeature("ruins", TypeRuins, HeightTall, 10, -5, 14, 5)

	shooter := infantryAt(0, 0)
	monster := Combatant{Pos: Point{X: 0, Y: 0}, Base: &Shape{Form: FormOval, Length: 4, Width: 2.5}, Height: TallModelInches}
	target := infantryAt(20, 0)

	assert.False(t, HasLineOfSight(shooter, target, []Feature{ruins}))
	assert.False(t, HasLineOfSight(monster, target, []Feature{ruins}))
}

func TestMediumTerrainDoesNotBlockTallModels(t *testing.T) {
	wall := squareFeature("wall", TypeObstacle, HeightMedium, 10, -5, 14, 5)

	monster := Combatant{Pos: Point{X: 0, Y: 0}, Base: &Shape{Form: FormOval, Length: 4, Width: 2.5}, Height: TallModelInches}
	infantry := infantryAt(20, 0)

	// Either side being tall clears the segment.
	assert.True(t, HasLineOfSight(monster, infantry, []Feature{wall}))
	assert.True(t, HasLineOfSight(infantry, monster, []Feature{wall}))
	// Infantry on both sides stays blocked.
	assert.False(t, HasLineOfSight(infantry, infantryAt(20, 0.5), []Feature{wall}))
}

func TestLowTerrainNeverBlocks(t *testing.T) {
	crates := squareFeature("crates", TypeObstacle, HeightLow, 10, -5, 14, 5)
	assert.True(t, HasLineOfSight(infantryAt(0, 0), infantryAt(20, 0), []Feature{crates}))
}

func TestModelInsideTerrainSeesOut(t *testing.T) {
	ruins := squareFeature("ruins", TypeRuins, HeightTall, -2, -2, 2, 2)

	inside := infantryAt(0, 0)
	outside := infantryAt(20, 0)

	assert.True(t, HasLineOfSight(inside, outside, []Feature{ruins}))
	// Sight inward stays blocked; the exclusion is one way.
	assert.False(t, HasLineOfSight(outside, inside, []Feature{ruins}))
}

func TestTargetInsideTallRuinsScenario(t *testing.T) {
	ruins := squareFeature("ruins", TypeRuins, HeightTall, 18, -3, 24, 3)

	shooter := infantryAt(0, 0)
	target := infantryAt(21, 0) // fully inside the footprint

	assert.False(t, HasLineOfSight(shooter, target, []Feature{ruins}))
	assert.True(t, CheckBenefitOfCover(target.Pos, shooter.Pos, &Board{Features: []Feature{ruins}}))
}

func TestSamplingSeesAroundCorners(t *testing.T) {
	// A narrow blocker covers the center line only; a wide base pokes out.
	blocker := squareFeature("pillar", TypeRuins, HeightTall, 10, -0.4, 11, 0.4)

	wide := Combatant{Pos: Point{X: 0, Y: 0}, Base: &Shape{Form: FormRectangular, Length: 1, Width: 4}, Height: InfantryInches}
	target := Combatant{Pos: Point{X: 20, Y: 0}, Base: &Shape{Form: FormRectangular, Length: 1, Width: 4}, Height: InfantryInches}

	assert.True(t, HasLineOfSight(wide, target, []Feature{blocker}))
}

func TestDegeneratePolygonNeverBlocks(t *testing.T) {
	line := Feature{
		ID: "bad", Type: TypeRuins, Height: HeightTall,
		Footprint: Polygon{{X: 10, Y: -5}, {X: 10, Y: 5}},
	}
	assert.True(t, HasLineOfSight(infantryAt(0, 0), infantryAt(20, 0), []Feature{line}))
}

func TestMissingHeightDefaultsToTall(t *testing.T) {
	f := squareFeature("mystery", TypeRuins, "", 10, -5, 14, 5)
	monster := Combatant{Pos: Point{X: 0, Y: 0}, Base: &Shape{Form: FormOval, Length: 4, Width: 2.5}, Height: TallModelInches}
	assert.False(t, HasLineOfSight(monster, infantryAt(20, 0), []Feature{f}))
}

func TestSimplePathBlocksAboveLow(t *testing.T) {
	medium := squareFeature("wall", TypeObstacle, HeightMedium, 10, -5, 14, 5)
	low := squareFeature("crates", TypeObstacle, HeightLow, 10, -5, 14, 5)

	a, b := Point{X: 0, Y: 0}, Point{X: 20, Y: 0}
	assert.False(t, HasLineOfSightSimple(a, b, []Feature{medium}))
	assert.True(t, HasLineOfSightSimple(a, b, []Feature{low}))
}
