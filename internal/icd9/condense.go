package icd9

// Condense collapses codes into the fewest ancestors that cover them. A
// parent replaces its children when every child that matters is covered:
// with a defined set that means every child holding a real code, without one
// it means all ten syntactic children. A code listed directly covers its own
// subtree.
func Condense(codes []Code, defined *DefinedSet) []Code {
	k := &condenser{
		in:       make(map[string]bool, len(codes)),
		prefixes: make(map[string]bool),
		defined:  defined,
		memo:     make(map[string]bool),
	}
	var majors []Code
	seen := make(map[string]bool)
	for _, c := range codes {
		k.in[c.Short()] = true
		for a, ok := c, true; ok; a, ok = Parent(a) {
			k.prefixes[a.Short()] = true
		}
		m := c.MajorCode()
		if !seen[m.Short()] {
			seen[m.Short()] = true
			majors = append(majors, m)
		}
	}
	Sort(majors)

	var out []Code
	for _, m := range majors {
		out = k.collect(m, out)
	}
	return out
}

type condenser struct {
	in       map[string]bool
	prefixes map[string]bool // every ancestor-or-self of an input code
	defined  *DefinedSet
	memo     map[string]bool
}

func (k *condenser) collect(c Code, out []Code) []Code {
	if k.covered(c) {
		return append(out, c)
	}
	for _, ch := range Children(c, nil) {
		if k.prefixes[ch.Short()] {
			out = k.collect(ch, out)
		}
	}
	return out
}

func (k *condenser) relevant(c Code) bool {
	if k.defined == nil {
		return true
	}
	return k.prefixes[c.Short()] || len(k.defined.subtree(c)) > 0
}

func (k *condenser) covered(c Code) bool {
	key := c.Short()
	if v, ok := k.memo[key]; ok {
		return v
	}
	v := k.in[key]
	if !v && k.prefixes[key] {
		found := false
		v = true
		for _, ch := range Children(c, nil) {
			if !k.relevant(ch) {
				continue
			}
			found = true
			if !k.covered(ch) {
				v = false
				break
			}
		}
		v = v && found
	}
	k.memo[key] = v
	return v
}
