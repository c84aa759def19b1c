package combat

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/dice"
	"github.com/veldrane/grim-arbiter/internal/geometry"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver(roller *dice.Roller) *Resolver {
	return NewResolver(roller, quietLogger())
}

// testUnit builds a unit of identical models in a row starting at x.
func testUnit(id, owner string, toughness, save, models, wounds int, x float64) *profile.CombatantSnapshot {
	u := &profile.CombatantSnapshot{
		UnitID:    id,
		Owner:     owner,
		Name:      id,
		Toughness: toughness,
		Save:      save,
		Keywords:  profile.KeywordSet{},
		Flags:     profile.FlagSet{},
	}
	for i := 0; i < models; i++ {
		u.Models = append(u.Models, profile.Model{
			ID:            fmt.Sprintf("m%d", i+1),
			Alive:         true,
			CurrentWounds: wounds,
			MaxWounds:     wounds,
			Pos:           geometry.Point{X: x, Y: float64(i) * 0.5},
		})
	}
	return u
}

func testWeapon(id string, kind profile.WeaponKind, rng float64, attacks string, skill, strength, ap int, damage string, keywords ...string) profile.WeaponProfile {
	return profile.WeaponProfile{
		ID:             id,
		Name:           id,
		Kind:           kind,
		Attacks:        attacks,
		SkillThreshold: skill,
		Strength:       strength,
		AP:             ap,
		Damage:         damage,
		RangeInches:    rng,
		Keywords:       profile.ParseKeywords(keywords...),
	}
}

func duelState(att, tgt *profile.CombatantSnapshot) *battle.State {
	s := battle.NewState()
	s.AddUnit(att)
	s.AddUnit(tgt)
	return s
}

func shootRequest() Request {
	return Request{Assignments: []Assignment{
		{AttackerID: "marines", WeaponRef: "gun", TargetID: "orks"},
	}}
}
