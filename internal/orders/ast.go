// Package orders parses the order DSL driving the arbitration core.
// Two order families exist: dice rolls ("roll d6") and attack orders
// ("shoot by: marines with: bolt-rifle at: orks"). The fight verb uses
// the same shape for melee.
package orders

import "strings"

// Order represents a top-level action inputted into the DSL
type Order struct {
	Roll   *RollOrder   `parser:"( @@"`
	Attack *AttackOrder `parser:"| @@ )"`
}

// RollOrder evaluates a bare dice expression.
type RollOrder struct {
	Keyword string `parser:"@(\"roll\"|\"Roll\"|\"ROLL\")"`
	Dice    string `parser:"@(DiceMacro|Int)"`
}

// AttackOrder submits one or more weapon assignments against a target.
// Extra weapons attach with "and:", producing parallel assignments in
// submission order.
type AttackOrder struct {
	Verb    string   `parser:"@(\"shoot\"|\"Shoot\"|\"SHOOT\"|\"fight\"|\"Fight\"|\"FIGHT\")"`
	Unit    string   `parser:"\"by\" \":\" @Ident"`
	Weapons []string `parser:"\"with\" \":\" @(Ident|DiceMacro) ( \"and\" \":\" @(Ident|DiceMacro) )*"`
	Target  string   `parser:"\"at\" \":\" @Ident"`
}

// IsMelee reports whether the order used the fight verb.
func (a *AttackOrder) IsMelee() bool {
	return strings.EqualFold(a.Verb, "fight")
}
