/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package pdata

import (
	"github.com/nspersist/nspersist/pkg/goutils/logger"
)

// Folds resolved values back into variable and group records, then compacts string table.
//
// Value resolved from a possibility or group member is written back to it,
// also when it was reset. Any other value is written to unconditional
// possibility of the first record of the leaf, which may be stored under any
// alias spelling. Record is created if absent. Commit never creates
// conditioned possibilities.
func (inst *Instance) CommitChanges() {
	rv := inst.resolved
	if rv == nil {
		inst.compactStrings()
		return
	}

	inst.stringIndex = make(map[string]StrIdx, len(inst.Strings))
	for i := len(inst.Strings) - 1; i >= 0; i-- {
		inst.stringIndex[inst.Strings[i]] = StrIdx(i)
	}
	defer func() { inst.stringIndex = nil }()

	for _, id := range rv.order {
		v := rv.values[id]
		switch {
		case v.origin == originGroup:
			m := &inst.Groups[v.group].Possibilities[v.groupPoss].Members[v.member]
			m.Kind = v.value.Kind()
			m.Value = inst.store(v.value)
		case v.origin == originVariable && v.possibility >= 0:
			variable := &inst.Variables[v.variable]
			variable.Possibilities[v.possibility].Value = inst.store(v.value)
			v.possibility = dedupePossibilities(variable, v.possibility)
		default:
			vi := v.variable
			if v.origin != originVariable {
				var ok bool
				if vi, ok = rv.records[id]; !ok {
					inst.Variables = append(inst.Variables, Variable{Name: inst.Intern(id), Kind: v.value.Kind()})
					vi = len(inst.Variables) - 1
					rv.records[id] = vi
				}
			}
			v.origin, v.variable, v.possibility = originVariable, vi, inst.writeUnconditional(vi, v.value)
		}
	}

	inst.compactStrings()
}

// Writes value to unconditional possibility of variable, returns possibility index
func (inst *Instance) writeUnconditional(vi int, value Value) int {
	variable := &inst.Variables[vi]
	if variable.Kind != value.Kind() {
		logger.Verbose("variable", inst.Strings[variable.Name], "changes kind from", variable.Kind.TrimString(), "to", value.Kind().TrimString())
		variable.Kind = value.Kind()
		variable.Possibilities = nil
	}
	stored := inst.store(value)
	for pi := range variable.Possibilities {
		if variable.Possibilities[pi].Dependency == NoDependency {
			variable.Possibilities[pi].Value = stored
			return dedupePossibilities(variable, pi)
		}
	}
	variable.Possibilities = append(variable.Possibilities, Possibility{Dependency: NoDependency, Value: stored})
	return len(variable.Possibilities) - 1
}

// Removes possibilities with the same dependency as keep, returns new index of keep
func dedupePossibilities(variable *Variable, keep int) int {
	dep := variable.Possibilities[keep].Dependency
	res := variable.Possibilities[:0]
	newKeep := keep
	for pi, p := range variable.Possibilities {
		if pi != keep && p.Dependency == dep {
			continue
		}
		if pi == keep {
			newKeep = len(res)
		}
		res = append(res, p)
	}
	variable.Possibilities = res
	return newKeep
}

// Calls fn for every string table reference, replaces reference by result
func (inst *Instance) rewriteStrIdx(fn func(StrIdx) StrIdx) {
	for vi := range inst.Variables {
		v := &inst.Variables[vi]
		v.Name = fn(v.Name)
		for pi := range v.Possibilities {
			p := &v.Possibilities[pi]
			if p.Dependency != NoDependency {
				p.Dependency = fn(p.Dependency)
			}
			if idx, ok := storedStrIdx(p.Value); ok {
				p.Value = withStrIdx(p.Value, fn(idx))
			}
		}
	}
	for gi := range inst.Groups {
		for pi := range inst.Groups[gi].Possibilities {
			gp := &inst.Groups[gi].Possibilities[pi]
			for di := range gp.Dependencies {
				gp.Dependencies[di] = fn(gp.Dependencies[di])
			}
			for mi := range gp.Members {
				m := &gp.Members[mi]
				m.Name = fn(m.Name)
				if idx, ok := storedStrIdx(m.Value); ok {
					m.Value = withStrIdx(m.Value, fn(idx))
				}
			}
		}
	}
}

// Merges duplicate strings into first occurrence and drops strings no record refers to
func (inst *Instance) compactStrings() {
	referenced := make([]bool, len(inst.Strings))
	inst.rewriteStrIdx(func(idx StrIdx) StrIdx {
		if int(idx) < len(referenced) {
			referenced[idx] = true
		}
		return idx
	})

	remap := make([]StrIdx, len(inst.Strings))
	first := make(map[string]StrIdx, len(inst.Strings))
	compacted := make([]string, 0, len(inst.Strings))
	for i, s := range inst.Strings {
		if !referenced[i] {
			remap[i] = NoDependency
			continue
		}
		if j, ok := first[s]; ok {
			remap[i] = j
			continue
		}
		j := StrIdx(len(compacted))
		first[s] = j
		remap[i] = j
		compacted = append(compacted, s)
	}

	if removed := len(inst.Strings) - len(compacted); removed > 0 && logger.IsVerbose() {
		logger.Verbose("string table compacted:", removed, "strings removed")
	}
	inst.rewriteStrIdx(func(idx StrIdx) StrIdx {
		if int(idx) < len(remap) {
			return remap[idx]
		}
		return idx
	})
	inst.Strings = compacted
}

// Checks every string table reference is in range
func (inst *Instance) Validate() error {
	var bad []StrIdx
	inst.rewriteStrIdx(func(idx StrIdx) StrIdx {
		if int64(idx) >= int64(len(inst.Strings)) {
			bad = append(bad, idx)
		}
		return idx
	})
	if len(bad) > 0 {
		return formatError(0, "string indexes %v out of range %d", bad, len(inst.Strings))
	}
	return nil
}
