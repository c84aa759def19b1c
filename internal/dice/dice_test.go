package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestD6Bounds(t *testing.T) {
	r := New(1)
	rolls := r.D6(100)
	if len(rolls) != 100 {
		t.Fatalf("expected 100 rolls, got %d", len(rolls))
	}
	for _, v := range rolls {
		if v < 1 || v > 6 {
			t.Errorf("roll out of bounds for d6: %d", v)
		}
	}
}

func TestD3Bounds(t *testing.T) {
	r := New(1)
	for _, v := range r.D3(100) {
		if v < 1 || v > 3 {
			t.Errorf("roll out of bounds for d3: %d", v)
		}
	}
}

func TestSeedDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)
	assert.Equal(t, a.D6(20), b.D6(20))

	ta, _ := a.TwoD6()
	tb, _ := b.TwoD6()
	assert.Equal(t, ta, tb)
}

func TestEnqueueDrainsBeforeSource(t *testing.T) {
	r := New(7)
	r.Enqueue(6, 1, 3)
	assert.Equal(t, []int{6, 1, 3}, r.D6(3))
}

func TestResolveVariableFixed(t *testing.T) {
	r := New(1)
	v, err := r.ResolveVariable("4")
	assert.NoError(t, err)
	assert.Equal(t, 4, v.Value)
	assert.False(t, v.Rolled)
	assert.Empty(t, v.Rolls)
}

func TestResolveVariableMacros(t *testing.T) {
	cases := []struct {
		expr  string
		dice  int
		sides int
		mod   int
	}{
		{"D6", 1, 6, 0},
		{"d3", 1, 3, 0},
		{"D6+2", 1, 6, 2},
		{"D3+1", 1, 3, 1},
		{"2D6", 2, 6, 0},
		{" 2d6+1 ", 2, 6, 1},
	}

	for _, tc := range cases {
		r := New(99)
		v, err := r.ResolveVariable(tc.expr)
		assert.NoError(t, err, tc.expr)
		assert.True(t, v.Rolled, tc.expr)
		assert.Len(t, v.Rolls, tc.dice, tc.expr)

		sum := tc.mod
		for _, f := range v.Rolls {
			assert.GreaterOrEqual(t, f, 1, tc.expr)
			assert.LessOrEqual(t, f, tc.sides, tc.expr)
			sum += f
		}
		assert.Equal(t, sum, v.Value, tc.expr)
	}
}

func TestResolveVariableEnqueued(t *testing.T) {
	r := New(1)
	r.Enqueue(5)
	v, err := r.ResolveVariable("D6+2")
	assert.NoError(t, err)
	assert.Equal(t, 7, v.Value)
	assert.Equal(t, []int{5}, v.Rolls)
}

func TestResolveVariableRejectsGarbage(t *testing.T) {
	r := New(1)
	for _, expr := range []string{"", "D20", "6D", "banana", "-2", "D6+"} {
		_, err := r.ResolveVariable(expr)
		assert.Error(t, err, expr)
	}
}

func TestIsVariable(t *testing.T) {
	assert.True(t, IsVariable("D6"))
	assert.True(t, IsVariable("2d3+1"))
	assert.False(t, IsVariable("4"))
	assert.False(t, IsVariable("sword"))
}
