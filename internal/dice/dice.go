package dice

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// Roller produces every die result used by the resolution pipeline.
// It is never shared between concurrent resolutions: each resolution
// either owns its Roller or reuses it strictly sequentially, so that
// an identical seed always reproduces an identical outcome.
type Roller struct {
	rng   *rand.Rand
	queue []int
}

// New creates a Roller seeded for reproducible sequences.
func New(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// NewFrom creates a Roller backed by an externally owned source.
func NewFrom(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// Enqueue prepares deterministic results consumed before the random
// source. Intended for tests that need exact die faces.
func (r *Roller) Enqueue(values ...int) {
	r.queue = append(r.queue, values...)
}

// die returns a single result in [1, sides], draining the queue first.
func (r *Roller) die(sides int) int {
	if len(r.queue) > 0 {
		v := r.queue[0]
		r.queue = r.queue[1:]
		return v
	}
	return r.rng.Intn(sides) + 1
}

// D6 rolls n six-sided dice and returns the individual results.
// Individual faces are exposed because critical classification depends
// on the unmodified die value, never the modified total.
func (r *Roller) D6(n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = r.die(6)
	}
	return rolls
}

// D3 rolls n three-sided dice and returns the individual results.
func (r *Roller) D3(n int) []int {
	rolls := make([]int, n)
	for i := range rolls {
		rolls[i] = r.die(3)
	}
	return rolls
}

// TwoD6 rolls 2d6 and returns the total alongside both faces.
func (r *Roller) TwoD6() (int, []int) {
	rolls := r.D6(2)
	return rolls[0] + rolls[1], rolls
}

// Variable is the resolved value of a variable characteristic such as a
// weapon's attacks or damage. Rolled reports whether dice were involved,
// and Rolls preserves the raw faces when they were.
type Variable struct {
	Value  int
	Rolled bool
	Rolls  []int
}

var variableRegex = regexp.MustCompile(`(?i)^(\d*)d(3|6)([+-]\d+)?$`)

// ResolveVariable evaluates a variable-characteristic expression: a fixed
// integer ("3"), a die macro ("D6", "D3", "2D6"), or a die macro with a
// flat modifier ("D6+2"). Whitespace and case are ignored.
func (r *Roller) ResolveVariable(expr string) (Variable, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if trimmed == "" {
		return Variable{}, fmt.Errorf("characteristic expression cannot be empty")
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 {
			return Variable{}, fmt.Errorf("characteristic cannot be negative: %s", expr)
		}
		return Variable{Value: n}, nil
	}

	matches := variableRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return Variable{}, fmt.Errorf("invalid characteristic expression: %s", expr)
	}

	count := 1
	if matches[1] != "" {
		count, _ = strconv.Atoi(matches[1])
	}
	sides, _ := strconv.Atoi(matches[2])

	res := Variable{Rolled: true}
	if sides == 3 {
		res.Rolls = r.D3(count)
	} else {
		res.Rolls = r.D6(count)
	}
	for _, v := range res.Rolls {
		res.Value += v
	}

	if matches[3] != "" {
		mod, _ := strconv.Atoi(matches[3])
		res.Value += mod
	}
	if res.Value < 0 {
		res.Value = 0
	}
	return res, nil
}

// IsVariable reports whether expr would roll dice rather than resolve to
// a fixed integer. Invalid expressions report false.
func IsVariable(expr string) bool {
	trimmed := strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	return variableRegex.MatchString(trimmed)
}

// IsValid reports whether expr is an acceptable variable-characteristic
// expression: a non-negative fixed integer or a die macro.
func IsValid(expr string) bool {
	trimmed := strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n >= 0
	}
	return variableRegex.MatchString(trimmed)
}
