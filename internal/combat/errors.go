package combat

import "errors"

// Structural errors: the request references things that do not exist
// or cannot be interpreted. Recoverable by the caller, which may skip
// the assignment.
var (
	ErrUnknownUnit      = errors.New("unknown unit")
	ErrUnknownWeapon    = errors.New("unknown weapon")
	ErrMalformedProfile = errors.New("malformed profile")
	ErrEmptyRequest     = errors.New("no assignments in request")
)

// Rule violations: the request is well-formed but illegal. Rejected at
// validation, never silently ignored.
var (
	ErrSpentOneShot      = errors.New("one-shot weapon already fired")
	ErrTargetDestroyed   = errors.New("target unit is destroyed")
	ErrLoneOperative     = errors.New("lone operative may only be targeted within 12 inches")
	ErrWeaponConflict    = errors.New("model may only fire one non-extra-attacks weapon per request")
	ErrFriendlyTarget    = errors.New("target unit belongs to the attacker")
	ErrAttackerDestroyed = errors.New("attacking unit is destroyed")
)
