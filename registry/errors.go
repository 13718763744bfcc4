package registry

import (
	"errors"
	"fmt"
)

// Kind identifies which invariant or construction rule an [Error] violates.
type Kind int

// Error kinds.
const (
	// KindBadAtom: an atom failed its type's Check after coercion.
	KindBadAtom Kind = iota
	// KindTooFew: a parameter has fewer atoms than its minimum cardinality.
	KindTooFew
	// KindTooMany: a parameter has more atoms than its maximum cardinality
	// (only reachable for a template built with WithStrict(true)).
	KindTooMany
	// KindConflict: two parameters that conflict both ended up present.
	KindConflict
	// KindMissingDependency: a parameter's depends set is not satisfied.
	KindMissingDependency
	// KindCycle: the depends/consumes graph has a cycle (construction only).
	KindCycle
	// KindUnknownComposite: a composite type has no sequence coercion.
	KindUnknownComposite
	// KindBadComplement: complement was requested with no complement func.
	KindBadComplement
	// KindUnknownReuse: a "use" descriptor points at an undefined template.
	KindUnknownReuse
	// KindDuplicateName: two descriptors declare the same template name.
	KindDuplicateName
)

func (k Kind) String() string {
	switch k {
	case KindBadAtom:
		return "bad_atom"
	case KindTooFew:
		return "too_few"
	case KindTooMany:
		return "too_many"
	case KindConflict:
		return "conflict"
	case KindMissingDependency:
		return "missing_dependency"
	case KindCycle:
		return "cycle"
	case KindUnknownComposite:
		return "unknown_composite"
	case KindBadComplement:
		return "bad_complement"
	case KindUnknownReuse:
		return "unknown_reuse"
	case KindDuplicateName:
		return "duplicate_name"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per [Kind], for use with errors.Is. An [*Error]'s
// Unwrap returns the sentinel matching its Kind.
var (
	ErrBadAtom           = errors.New("bad atom")
	ErrTooFew            = errors.New("too few values")
	ErrTooMany           = errors.New("too many values")
	ErrConflict          = errors.New("conflicting parameters")
	ErrMissingDependency = errors.New("missing dependency")
	ErrCycle             = errors.New("dependency cycle")
	ErrUnknownComposite  = errors.New("composite has no sequence coercion")
	ErrBadComplement     = errors.New("complement requested without a complement function")
	ErrUnknownReuse      = errors.New("use references an unknown template")
	ErrDuplicateName     = errors.New("duplicate template name")
)

var sentinels = map[Kind]error{
	KindBadAtom:           ErrBadAtom,
	KindTooFew:            ErrTooFew,
	KindTooMany:           ErrTooMany,
	KindConflict:          ErrConflict,
	KindMissingDependency: ErrMissingDependency,
	KindCycle:             ErrCycle,
	KindUnknownComposite:  ErrUnknownComposite,
	KindBadComplement:     ErrBadComplement,
	KindUnknownReuse:      ErrUnknownReuse,
	KindDuplicateName:     ErrDuplicateName,
}

// Error is the structured failure value surfaced by Template, Registry, and
// Instance operations.
type Error struct {
	Kind Kind

	// Name is the template this error concerns.
	Name string
	// Index is the atom index, for [KindBadAtom].
	Index int
	// TypeName names the value type involved, for [KindBadAtom].
	TypeName string
	// Have and Min/Max carry cardinality details for [KindTooFew]/[KindTooMany].
	Have, Min, Max int
	// A and B are the two conflicting names, for [KindConflict].
	A, B string
	// Missing is the unmet dependency name, for [KindMissingDependency].
	Missing string
	// Cycle lists the names forming a cycle, for [KindCycle].
	Cycle []string

	// Cause, when set, is the underlying error (e.g. a callback failure).
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadAtom:
		msg := fmt.Sprintf("%s[%d]: not a valid %s", e.Name, e.Index, e.TypeName)
		if e.Cause != nil {
			msg += ": " + e.Cause.Error()
		}

		return msg
	case KindTooFew:
		return fmt.Sprintf("%s: have %d values, need at least %d", e.Name, e.Have, e.Min)
	case KindTooMany:
		return fmt.Sprintf("%s: have %d values, at most %d allowed", e.Name, e.Have, e.Max)
	case KindConflict:
		return fmt.Sprintf("%s conflicts with %s", e.A, e.B)
	case KindMissingDependency:
		return fmt.Sprintf("%s requires %s", e.Name, e.Missing)
	case KindCycle:
		return fmt.Sprintf("dependency cycle: %v", e.Cycle)
	case KindUnknownComposite:
		return fmt.Sprintf("%s: composite type has no sequence coercion", e.Name)
	case KindBadComplement:
		return fmt.Sprintf("%s: complement requested but no complement function is defined", e.Name)
	case KindUnknownReuse:
		return fmt.Sprintf("%s: use references unknown template %q", e.Name, e.Missing)
	case KindDuplicateName:
		return fmt.Sprintf("duplicate template name %q", e.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Name, e.Kind)
	}
}

// Unwrap returns the sentinel error matching e.Kind, so callers can use
// errors.Is(err, registry.ErrConflict) without needing Kind or the
// concrete *Error type.
func (e *Error) Unwrap() error {
	if err, ok := sentinels[e.Kind]; ok {
		return err
	}

	return nil
}
