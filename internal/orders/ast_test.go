package orders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldrane/grim-arbiter/internal/orders"
)

func TestParseShootOrder(t *testing.T) {
	p := orders.Build()

	o, err := p.ParseString("", "shoot by: marines with: bolt-rifle at: orks")
	require.NoError(t, err)
	require.NotNil(t, o.Attack)

	assert.Equal(t, "marines", o.Attack.Unit)
	assert.Equal(t, []string{"bolt-rifle"}, o.Attack.Weapons)
	assert.Equal(t, "orks", o.Attack.Target)
	assert.False(t, o.Attack.IsMelee())
}

func TestParseShootWithWeaponList(t *testing.T) {
	p := orders.Build()

	o, err := p.ParseString("", "shoot by: marines with: bolt-rifle and: melta-gun at: orks")
	require.NoError(t, err)
	require.NotNil(t, o.Attack)

	assert.Equal(t, []string{"bolt-rifle", "melta-gun"}, o.Attack.Weapons)
}

func TestParseFightOrder(t *testing.T) {
	p := orders.Build()

	o, err := p.ParseString("", "Fight by: orks with: choppa at: marines")
	require.NoError(t, err)
	require.NotNil(t, o.Attack)
	assert.True(t, o.Attack.IsMelee())
}

func TestParseRollOrder(t *testing.T) {
	p := orders.Build()

	o, err := p.ParseString("", "roll 2d6+1")
	require.NoError(t, err)
	require.NotNil(t, o.Roll)
	assert.Equal(t, "2d6+1", o.Roll.Dice)

	o, err = p.ParseString("", "roll D6")
	require.NoError(t, err)
	require.NotNil(t, o.Roll)
	assert.Equal(t, "D6", o.Roll.Dice)
}

func TestParseFailureGetsGuidance(t *testing.T) {
	p := orders.Build()

	_, err := p.ParseString("", "shoot the orks please")
	require.Error(t, err)

	mapped := orders.MapError("shoot the orks please", err)
	assert.Contains(t, mapped.Error(), "shoot by: Unit")

	mapped = orders.MapError("", nil)
	assert.Contains(t, mapped.Error(), "understand")
}
