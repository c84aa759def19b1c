// Package session wires the full resolution pipeline together: order
// parsing, profile loading, ability evaluation, combat resolution,
// journal append and diff application. Interactive play and automated
// batch resolution both go through Execute, so the rules can never
// drift between the two paths.
package session

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/participle/v2"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/combat"
	"github.com/veldrane/grim-arbiter/internal/dice"
	"github.com/veldrane/grim-arbiter/internal/effects"
	"github.com/veldrane/grim-arbiter/internal/journal"
	"github.com/veldrane/grim-arbiter/internal/orders"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

// Journal defines the dependency required by Session to persist
// resolution outputs.
type Journal interface {
	AppendOutcome(resolutionID, order string, diffs []battle.Diff, traces []combat.Trace) error
	Load() ([]journal.Record, error)
	Close() error
}

// Config carries the session dependencies' settings.
type Config struct {
	DataDirs     []string
	AbilitiesDir string
	Seed         int64
	Logger       *slog.Logger
}

// Result is what one executed order hands back to the caller.
type Result struct {
	ResolutionID string
	Success      bool
	Errors       []string
	Diffs        []battle.Diff
	Traces       []combat.Trace
	Messages     []string
}

// Session manages the cohesive loop of taking orders, resolving them,
// persisting the outputs, and folding the diffs into the battle state.
type Session struct {
	loader    *profile.Loader
	journal   Journal
	state     *battle.State
	roller    *dice.Roller
	resolver  *combat.Resolver
	effects   *effects.Manager
	parser    *participle.Parser[orders.Order]
	projector *battle.Projector
	log       *slog.Logger
}

// NewSession bootstraps the pipeline around an injected journal.
func NewSession(cfg Config, store Journal) (*Session, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	roller := dice.New(cfg.Seed)
	registry, err := effects.NewRegistry(func(expr string) int {
		v, err := roller.ResolveVariable(expr)
		if err != nil {
			return 0
		}
		return v.Value
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize effects registry: %w", err)
	}

	var manager *effects.Manager
	if cfg.AbilitiesDir != "" {
		manager, err = effects.LoadManifests(registry, cfg.AbilitiesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load ability manifests: %w", err)
		}
	} else {
		manager, err = effects.NewManager(registry, nil)
		if err != nil {
			return nil, err
		}
	}

	return &Session{
		loader:    profile.NewLoader(cfg.DataDirs),
		journal:   store,
		state:     battle.NewState(),
		roller:    roller,
		resolver:  combat.NewResolver(roller, log),
		effects:   manager,
		parser:    orders.Build(),
		projector: battle.NewProjector(),
		log:       log,
	}, nil
}

// LoadBattlefield populates the state with the named board and units
// from the data directories.
func (s *Session) LoadBattlefield(board string, units ...string) error {
	if board != "" {
		b, err := s.loader.LoadBoard(board)
		if err != nil {
			return err
		}
		s.state.Board = b
	}
	for _, name := range units {
		u, err := s.loader.LoadUnit(name)
		if err != nil {
			return err
		}
		s.state.AddUnit(u)
	}
	return nil
}

// State returns the current projected battle state.
func (s *Session) State() *battle.State { return s.state }

// Loader returns the instantiated YAML reference loader.
func (s *Session) Loader() *profile.Loader { return s.loader }

// Roller exposes the session dice service, mainly so tests can enqueue
// deterministic results.
func (s *Session) Roller() *dice.Roller { return s.roller }

// Execute takes a raw order string, coordinates resolution, appends
// the outputs to the journal, and applies the diffs to the state.
func (s *Session) Execute(input string) (*Result, error) {
	order, err := s.parser.ParseString("", input)
	if err != nil {
		return nil, orders.MapError(input, err)
	}

	if order.Roll != nil {
		v, err := s.roller.ResolveVariable(order.Roll.Dice)
		if err != nil {
			return nil, fmt.Errorf("roll execution error: %w", err)
		}
		return &Result{
			Success:  true,
			Messages: []string{fmt.Sprintf("rolled %s: %d %v", order.Roll.Dice, v.Value, v.Rolls)},
		}, nil
	}

	return s.executeAttack(input, order.Attack)
}

// BuildRequest translates a parsed attack order into the engine
// request, one assignment per listed weapon. The order verb must agree
// with each resolvable weapon's kind: fight takes melee profiles and
// shoot takes ranged ones. Unknown units and weapons pass through for
// the resolver to report with full context.
func (s *Session) BuildRequest(attack *orders.AttackOrder) (combat.Request, error) {
	att, attOK := s.state.Unit(attack.Unit)

	var req combat.Request
	for _, wref := range attack.Weapons {
		if attOK {
			if w, ok := att.Weapon(wref); ok && w.IsMelee() != attack.IsMelee() {
				verb := "shoot"
				if attack.IsMelee() {
					verb = "fight"
				}
				return combat.Request{}, fmt.Errorf("weapon %q is %s and cannot be used in a %s order", wref, w.Kind, verb)
			}
		}
		req.Assignments = append(req.Assignments, combat.Assignment{
			AttackerID: attack.Unit,
			WeaponRef:  wref,
			TargetID:   attack.Target,
		})
	}
	return req, nil
}

func (s *Session) executeAttack(input string, attack *orders.AttackOrder) (*Result, error) {
	req, err := s.BuildRequest(attack)
	if err != nil {
		return nil, err
	}

	granted, err := s.applyAbilityGrants(attack)
	if err != nil {
		return nil, err
	}
	// Instant effects expire with the resolution on every path, error
	// paths included.
	defer s.clearAbilityGrants(granted)

	out := s.resolver.Resolve(s.state, req)
	res := &Result{
		ResolutionID: journal.NewResolutionID(),
		Success:      out.Success,
		Errors:       out.Errors,
		Diffs:        out.Diffs,
		Traces:       out.Traces,
	}
	if !out.Success {
		return res, nil
	}

	if err := s.journal.AppendOutcome(res.ResolutionID, input, out.Diffs, out.Traces); err != nil {
		return nil, fmt.Errorf("failed to append resolution to journal: %w", err)
	}
	if err := s.projector.Apply(s.state, out.Diffs); err != nil {
		return nil, fmt.Errorf("failed to apply diffs: %w", err)
	}

	for _, d := range out.Diffs {
		res.Messages = append(res.Messages, d.Message())
	}
	return res, nil
}

// applyAbilityGrants evaluates the ability manifests for the attack
// and folds the granted effect flags into the state before resolution.
// The grants are instant effects, cleared again after the resolution.
func (s *Session) applyAbilityGrants(attack *orders.AttackOrder) ([]battle.Diff, error) {
	att, ok := s.state.Unit(attack.Unit)
	if !ok {
		// The resolver reports the structural error with full context.
		return nil, nil
	}
	tgt, ok := s.state.Unit(attack.Target)
	if !ok {
		return nil, nil
	}
	var weapon *profile.WeaponProfile
	if len(attack.Weapons) > 0 {
		weapon, _ = att.Weapon(attack.Weapons[0])
	}

	grants, err := s.effects.Grants(att, tgt, weapon)
	if err != nil {
		return nil, fmt.Errorf("ability evaluation failed: %w", err)
	}
	if len(grants) == 0 {
		return nil, nil
	}
	if err := s.projector.Apply(s.state, grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// clearAbilityGrants removes the instant effect flags granted for one
// resolution.
func (s *Session) clearAbilityGrants(granted []battle.Diff) {
	for _, g := range granted {
		flag, ok := g.(*battle.FlagDiff)
		if !ok {
			continue
		}
		remove := &battle.FlagDiff{Unit: flag.Unit, Flag: flag.Flag, Operation: battle.OpRemove}
		if err := s.projector.Apply(s.state, []battle.Diff{remove}); err != nil {
			s.log.Warn("failed to clear effect flag", "unit", flag.Unit, "flag", flag.Flag, "error", err)
		}
	}
}

// Simulate resolves the same order n times against the current state
// without committing anything, returning the total damage of each run.
// It reuses the exact sequential pipeline that Execute drives.
func (s *Session) Simulate(input string, n int, onIteration func(i int)) ([]int, error) {
	order, err := s.parser.ParseString("", input)
	if err != nil {
		return nil, orders.MapError(input, err)
	}
	if order.Attack == nil {
		return nil, fmt.Errorf("only attack orders can be simulated")
	}
	req, err := s.BuildRequest(order.Attack)
	if err != nil {
		return nil, err
	}

	granted, err := s.applyAbilityGrants(order.Attack)
	if err != nil {
		return nil, err
	}
	defer s.clearAbilityGrants(granted)

	samples := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out := s.resolver.Resolve(s.state, req)
		if !out.Success {
			return nil, fmt.Errorf("simulation rejected: %v", out.Errors)
		}
		total := 0
		for _, tr := range out.Traces {
			if tr.Stage == combat.StageDamageAllocation {
				total += tr.DamageDealt
			}
		}
		samples = append(samples, total)
		if onIteration != nil {
			onIteration(i)
		}
	}
	return samples, nil
}
