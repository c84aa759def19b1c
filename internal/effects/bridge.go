package effects

import (
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// ContextFromUnit converts a snapshot into a map suitable for CEL
// evaluation.
func ContextFromUnit(u *profile.CombatantSnapshot) map[string]any {
	if u == nil {
		return nil
	}
	keywords := make([]string, 0, len(u.Keywords))
	for k := range u.Keywords {
		keywords = append(keywords, k.String())
	}
	flags := map[string]int{}
	for f, p := range u.Flags {
		flags[f] = p
	}
	return map[string]any{
		"id":           u.UnitID,
		"owner":        u.Owner,
		"name":         u.Name,
		"toughness":    u.Toughness,
		"save":         u.Save,
		"leadership":   u.Leadership,
		"fnp":          u.FNP,
		"keywords":     keywords,
		"flags":        flags,
		"alive_models": len(u.AliveModels()),
		"destroyed":    u.IsDestroyed(),
	}
}

// ContextFromWeapon converts a weapon profile for CEL evaluation.
func ContextFromWeapon(w *profile.WeaponProfile) map[string]any {
	if w == nil {
		return nil
	}
	keywords := make([]string, 0, len(w.Keywords))
	for k := range w.Keywords {
		keywords = append(keywords, k.String())
	}
	return map[string]any{
		"id":       w.ID,
		"name":     w.Name,
		"kind":     string(w.Kind),
		"strength": w.Strength,
		"ap":       w.AP,
		"range":    w.RangeInches,
		"keywords": keywords,
	}
}

// BuildEvalContext assembles the standard {attacker, target, weapon}
// context.
func BuildEvalContext(attacker, target *profile.CombatantSnapshot, weapon *profile.WeaponProfile) map[string]any {
	return map[string]any{
		"attacker": ContextFromUnit(attacker),
		"target":   ContextFromUnit(target),
		"weapon":   ContextFromWeapon(weapon),
	}
}
