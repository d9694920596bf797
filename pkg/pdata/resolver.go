/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"fmt"

	"github.com/nspersist/nspersist/pkg/goutils/logger"
	"github.com/nspersist/nspersist/pkg/pdef"
)

// Where resolved value came from
type originKind uint8

const (
	originNone originKind = iota
	originVariable
	originGroup
)

type resolvedValue struct {
	value Value

	origin      originKind
	variable    int
	possibility int
	group       int
	groupPoss   int
	member      int
}

type resolvedValues struct {
	generation uint64
	values     map[string]*resolvedValue
	order      []string
	// first variable record of leaf, by canonical identifier
	records map[string]int
}

// Reset is a leaf value replaced by zero value during resolution
type Reset struct {
	Identifier string
	Err        error
}

func (r Reset) String() string { return fmt.Sprintf("«%s» reset: %v", r.Identifier, r.Err) }

// Resolves active value for every schema leaf with the given enabled sources.
//
// Most specific valid possibility among all records of a leaf wins, first
// one in record order on ties.
// Group possibilities are applied after variables. Leaves without value get
// zero value, leaves with value not fitting current schema are reset to zero
// value and reported. Records of unknown leaves are kept untouched.
func (inst *Instance) ProcessData(schema pdef.ISchema, enabled IEnabledSources) ([]Reset, error) {
	if !schema.Finalised() {
		return nil, pdef.ErrNotFinalised
	}

	rv := &resolvedValues{
		generation: schema.Generation(),
		values:     make(map[string]*resolvedValue),
		records:    make(map[string]int),
	}

	isValid := func(dep StrIdx) bool {
		if dep == NoDependency {
			return true
		}
		s, err := inst.String(dep)
		return err == nil && enabled.IsEnabled(s)
	}

	// records of one leaf may be stored under different alias spellings
	type candidate struct {
		variable, possibility, score, ties int
	}
	candidates := make(map[string]*candidate)
	for vi, v := range inst.Variables {
		id, ok := inst.canonical(schema, v.Name)
		if !ok {
			continue
		}
		if _, ok := rv.records[id]; !ok {
			rv.records[id] = vi
		}
		for pi, p := range v.Possibilities {
			if !isValid(p.Dependency) {
				continue
			}
			score := 0
			if p.Dependency != NoDependency {
				score = 1
			}
			switch c := candidates[id]; {
			case c == nil || score > c.score:
				candidates[id] = &candidate{variable: vi, possibility: pi, score: score}
			case score == c.score:
				c.ties++
			}
		}
	}
	for _, id := range sortedKeys(candidates) {
		c := candidates[id]
		if c.ties > 0 && logger.IsVerbose() {
			logger.Verbose(fmt.Sprintf("«%s»: %d possibilities share score %d, first one is used", id, c.ties+1, c.score))
		}
		value, err := inst.load(inst.Variables[c.variable].Possibilities[c.possibility].Value)
		if err != nil {
			return nil, err
		}
		rv.values[id] = &resolvedValue{value: value, origin: originVariable, variable: c.variable, possibility: c.possibility}
	}

	for gi, g := range inst.Groups {
		best, bestScore := -1, -1
		for pi, gp := range g.Possibilities {
			valid := true
			for _, d := range gp.Dependencies {
				if !isValid(d) {
					valid = false
					break
				}
			}
			if valid && len(gp.Dependencies) > bestScore {
				best, bestScore = pi, len(gp.Dependencies)
			}
		}
		if best < 0 {
			continue
		}
		for mi, m := range g.Possibilities[best].Members {
			id, ok := inst.canonical(schema, m.Name)
			if !ok {
				continue
			}
			value, err := inst.load(m.Value)
			if err != nil {
				return nil, err
			}
			rv.values[id] = &resolvedValue{value: value, origin: originGroup, group: gi, groupPoss: best, member: mi}
		}
	}

	resets := make([]Reset, 0)
	for _, def := range schema.Definitions() {
		rv.order = append(rv.order, def.Identifier)
		v, ok := rv.values[def.Identifier]
		if !ok {
			rv.values[def.Identifier] = &resolvedValue{value: ZeroValue(def.Kind)}
			continue
		}
		if err := validateValue(def, v.value); err != nil {
			logger.Warning(err)
			resets = append(resets, Reset{Identifier: def.Identifier, Err: err})
			v.value = ZeroValue(def.Kind)
			// group member is rewritten in place by commit, variable gets unconditional value
			if v.origin == originVariable {
				v.possibility = -1
			}
		}
	}

	inst.schema = schema
	inst.resolved = rv
	return resets, nil
}

func (inst *Instance) canonical(schema pdef.ISchema, name StrIdx) (string, bool) {
	s, err := inst.String(name)
	if err != nil {
		return "", false
	}
	return schema.Canonical(s)
}

// Returns is instance resolved
func (inst *Instance) Resolved() bool { return inst.resolved != nil }
