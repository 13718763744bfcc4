// Package registry implements a declarative registry and processor for
// named parameter sets drawn from URI query strings: Template models a
// single parameter's pipeline, Registry is the ordered collection of
// Templates plus evaluation ranking, and Instance is a validated,
// registry-bound value set.
package registry

import (
	"fmt"
	"log/slog"
)

const defaultComplementName = "complement"

// Registry is the ordered, immutable collection of Templates plus the
// metadata needed to serialize and evaluate them. Build one with [New]; it
// is read-only after construction and safe to share across goroutines for
// concurrent Process calls.
type Registry struct {
	templates  map[string]*Template
	sequence   []string
	groups     map[string][]string
	complement string
	ranks      [][]string
	logger     *slog.Logger
}

// Option configures a [Registry] built with [New].
type Option func(*registryConfig)

type registryConfig struct {
	groups     map[string][]string
	complement string
	logger     *slog.Logger
}

// WithGroups registers named groups, each an ordered list of template
// names. Names not present in any descriptor are still recorded;
// [Instance.Group] simply reports them absent.
func WithGroups(groups map[string][]string) Option {
	return func(c *registryConfig) {
		c.groups = groups
	}
}

// WithComplementName overrides the reserved complement parameter name
// (default "complement").
func WithComplementName(name string) Option {
	return func(c *registryConfig) {
		c.complement = name
	}
}

// WithLogger sets the logger used for non-fatal diagnostics (e.g. unknown
// names in the reserved complement parameter). Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *registryConfig) {
		c.logger = l
	}
}

// New builds a Registry from an ordered list of Templates plus options.
// Construction mirrors conflict and consumes edges symmetrically and
// computes the evaluation ranking, failing with a [KindCycle] or
// [KindDuplicateName] *Error.
func New(templates []*Template, opts ...Option) (*Registry, error) {
	cfg := &registryConfig{
		complement: defaultComplementName,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	byName := make(map[string]*Template, len(templates))
	sequence := make([]string, 0, len(templates))

	for _, t := range templates {
		if _, exists := byName[t.Name]; exists {
			return nil, &Error{Kind: KindDuplicateName, Name: t.Name}
		}

		byName[t.Name] = t
		sequence = append(sequence, t.Name)
	}

	mirrorEdges(byName)

	ranks, err := computeRanks(byName, sequence)
	if err != nil {
		return nil, err
	}

	groups := cfg.groups
	if groups == nil {
		groups = map[string][]string{}
	}

	return &Registry{
		templates:  byName,
		sequence:   sequence,
		groups:     groups,
		complement: cfg.complement,
		ranks:      ranks,
		logger:     cfg.logger,
	}, nil
}

// mirrorEdges installs the symmetric half of every conflicts edge, which
// also covers the conflicts implied by consumes (WithConsumes already adds
// those to the owning template's own Conflicts set; this pass mirrors them
// onto the consumed templates too).
func mirrorEdges(byName map[string]*Template) {
	type edge struct{ from, to string }

	var edges []edge

	for name, t := range byName {
		for c := range t.Conflicts {
			edges = append(edges, edge{name, c})
		}
	}

	for _, e := range edges {
		if target, ok := byName[e.to]; ok {
			target.Conflicts[e.from] = true
		}
	}
}

// Sequence returns the canonical output order, a copy safe for the caller
// to retain.
func (r *Registry) Sequence() []string {
	return append([]string(nil), r.sequence...)
}

// Groups returns the named groups, a copy safe for the caller to retain.
func (r *Registry) Groups() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for k, v := range r.groups {
		out[k] = append([]string(nil), v...)
	}

	return out
}

// Ranks returns the evaluation ranking computed at construction, a copy
// safe for the caller to retain. Used by the inspect TUI to render the
// dependency stratification.
func (r *Registry) Ranks() [][]string {
	out := make([][]string, len(r.ranks))
	for i, rank := range r.ranks {
		out[i] = append([]string(nil), rank...)
	}

	return out
}

// Template returns the named template and whether it exists.
func (r *Registry) Template(name string) (*Template, bool) {
	t, ok := r.templates[name]

	return t, ok
}

// ComplementName returns the reserved complement parameter name.
func (r *Registry) ComplementName() string {
	return r.complement
}

// Refresh (re)invokes Universe for every template and caches the result.
// Callers must externally serialize Refresh with any in-flight
// Process/Instance.AsString using the same templates.
func (r *Registry) Refresh() {
	for _, t := range r.templates {
		t.refresh()
	}
}

// processOptions controls a single run of the rank-ordered pipeline,
// shared by Registry.Process and Instance.Set.
type processOptions struct {
	withDefaults bool
}

// ProcessOption configures [Registry.Process].
type ProcessOption func(*processOptions)

// WithDefaults enables default-thunk evaluation for absent, non-conflicting
// parameters. Process enables this implicitly; Instance.Set does not unless
// explicitly requested.
func WithDefaults(enabled bool) ProcessOption {
	return func(o *processOptions) { o.withDefaults = enabled }
}

// Process turns a raw multi-valued input map into a validated Instance,
// running every template's pipeline in rank order. Defaults are evaluated
// by default; pass WithDefaults(false) to disable.
func (r *Registry) Process(raw map[string][]any, opts ...ProcessOption) (*Instance, error) {
	po := &processOptions{withDefaults: true}
	for _, opt := range opts {
		opt(po)
	}

	return r.run(raw, map[string]any{}, po)
}

// run is the shared evaluation engine behind Process and Instance.Set: it
// seeds out with existing content, layers raw on top, and executes the
// rank-ordered pipeline.
func (r *Registry) run(raw map[string][]any, seed map[string]any, po *processOptions) (*Instance, error) {
	out := make(map[string]any, len(seed)+len(raw))
	for k, v := range seed {
		out[k] = v
	}

	complementNames := r.extractComplementSet(raw)

	toDelete := map[string]bool{}

	for _, rank := range r.ranks {
		for _, name := range rank {
			t := r.templates[name]

			if err := r.evalOne(t, raw, out, po, toDelete); err != nil {
				return nil, err
			}

			if _, present := out[name]; present && complementNames[name] {
				if t.Complement == nil {
					return nil, &Error{Kind: KindBadComplement, Name: name}
				}

				v, err := t.applyComplement(out[name])
				if err != nil {
					return nil, err
				}

				out[name] = v
			}
		}
	}

	for name := range toDelete {
		delete(out, name)
	}

	if err := r.validateMin(out); err != nil {
		return nil, err
	}

	if err := r.validateDepends(out); err != nil {
		return nil, err
	}

	other := map[string]any{}

	for name, values := range raw {
		if name == r.complement {
			continue
		}

		if _, known := r.templates[name]; !known {
			if len(values) == 1 {
				other[name] = values[0]
			} else {
				other[name] = values
			}
		}
	}

	return &Instance{
		registry: r,
		content:  out,
		other:    other,
	}, nil
}

// evalOne assigns a single template's value: raw presence wins over
// consumer eligibility, which wins over defaulting, then the
// post-assignment conflict re-check.
func (r *Registry) evalOne(t *Template, raw map[string][]any, out map[string]any, po *processOptions, toDelete map[string]bool) error {
	atoms := raw[t.Name]
	inRaw := atoms != nil

	// Without Empty, null/"" atoms are dropped; a key left with none is
	// treated as absent from raw.
	if inRaw && !t.Empty {
		kept := make([]any, 0, len(atoms))
		for _, a := range atoms {
			if !isEmptyAtom(a) {
				kept = append(kept, a)
			}
		}

		atoms, inRaw = kept, len(kept) > 0
	}

	switch {
	case inRaw:
		v, err := t.process(atoms)
		if err != nil {
			return err
		}

		out[t.Name] = v

		for _, c := range t.Consumes {
			toDelete[c] = true
		}

	case len(t.Consumes) > 0:
		if !allPresent(out, t.Consumes) {
			break
		}

		args := make([]any, len(t.Consumes))
		for i, c := range t.Consumes {
			args[i] = out[c]
		}

		v, err := t.Consumer(args...)
		if err != nil {
			return fmt.Errorf("%s: consumer: %w", t.Name, err)
		}

		out[t.Name] = v

		for _, c := range t.Consumes {
			toDelete[c] = true
		}

	case po.withDefaults && t.Default != nil && !allPresent(out, []string{t.Name}) && !conflictPresent(t, raw, out, toDelete):
		v, err := t.Default()
		if err != nil {
			return fmt.Errorf("%s: default: %w", t.Name, err)
		}

		out[t.Name] = v
	}

	if _, present := out[t.Name]; present {
		for c := range t.Conflicts {
			if _, conflictPresentVal := out[c]; conflictPresentVal && !toDelete[c] {
				return &Error{Kind: KindConflict, A: t.Name, B: c}
			}
		}
	}

	return nil
}

func allPresent(out map[string]any, names []string) bool {
	for _, n := range names {
		if _, ok := out[n]; !ok {
			return false
		}
	}

	return true
}

func conflictPresent(t *Template, raw map[string][]any, out map[string]any, toDelete map[string]bool) bool {
	for c := range t.Conflicts {
		if raw[c] != nil {
			return true
		}

		if _, ok := out[c]; ok && !toDelete[c] {
			return true
		}
	}

	return false
}

// validateMin enforces each template's minimum cardinality.
func (r *Registry) validateMin(out map[string]any) error {
	for name, t := range r.templates {
		if t.Min <= 0 {
			continue
		}

		v, present := out[name]
		have := 0

		if present {
			have = countAtoms(v)
		}

		if have < t.Min {
			return &Error{Kind: KindTooFew, Name: name, Have: have, Min: t.Min}
		}
	}

	return nil
}

// validateDepends enforces that every present key's dependencies are also
// present, checked at the end of the pipeline after cascading and
// deletions have settled. Names a template consumes are exempt: they are
// removed once the consuming template holds a value.
func (r *Registry) validateDepends(out map[string]any) error {
	for name, t := range r.templates {
		if _, present := out[name]; !present {
			continue
		}

		consumed := make(map[string]bool, len(t.Consumes))
		for _, c := range t.Consumes {
			consumed[c] = true
		}

		for d := range t.Depends {
			if consumed[d] {
				continue
			}

			if _, ok := out[d]; !ok {
				return &Error{Kind: KindMissingDependency, Name: name, Missing: d}
			}
		}
	}

	return nil
}

func countAtoms(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case []any:
		return len(t)
	case []string:
		return len(t)
	case [2]any:
		return 2
	default:
		return 1
	}
}

// extractComplementSet normalizes the reserved complement parameter's raw
// value into a set of names, logging (but not failing on) unknown names.
func (r *Registry) extractComplementSet(raw map[string][]any) map[string]bool {
	names := map[string]bool{}

	for _, v := range raw[r.complement] {
		s, ok := v.(string)
		if !ok {
			continue
		}

		if _, known := r.templates[s]; !known {
			if r.logger != nil {
				r.logger.Debug("ignoring unknown complement name", slog.String("name", s))
			}

			continue
		}

		names[s] = true
	}

	return names
}
