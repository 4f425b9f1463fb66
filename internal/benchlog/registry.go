package benchlog

import (
	"sort"
	"strings"
)

// Tuple is the ordered parameter set identifying an experiment.
type Tuple []Param

// Compare orders tuples pair by pair, name before value, using plain string
// comparison. Numeric-looking values therefore sort as text: "1024" < "256".
func (t Tuple) Compare(o Tuple) int {
	for i := 0; i < len(t) && i < len(o); i++ {
		if c := strings.Compare(t[i].Name, o[i].Name); c != 0 {
			return c
		}
		if c := strings.Compare(t[i].Value, o[i].Value); c != 0 {
			return c
		}
	}
	switch {
	case len(t) < len(o):
		return -1
	case len(t) > len(o):
		return 1
	}
	return 0
}

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range t {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.Name)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	sb.WriteByte(')')
	return sb.String()
}

// key is a collision-free map key for the tuple.
func (t Tuple) key() string {
	var sb strings.Builder
	for _, p := range t {
		sb.WriteString(p.Name)
		sb.WriteByte(0)
		sb.WriteString(p.Value)
		sb.WriteByte(0)
	}
	return sb.String()
}

// Entry is one experiment as kept by the Registry.
type Entry struct {
	Tuple   Tuple
	Metrics map[string]string
}

// Registry maps parameter tuples to metrics. A later Put with an equal
// tuple replaces the earlier entry.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Put stores metrics under tuple and reports whether an entry was replaced.
func (r *Registry) Put(tuple Tuple, metrics map[string]string) bool {
	k := tuple.key()
	_, replaced := r.entries[k]
	r.entries[k] = Entry{Tuple: tuple, Metrics: metrics}
	return replaced
}

// Add stores a parsed experiment.
func (r *Registry) Add(e *Experiment) bool {
	return r.Put(e.Tuple(), e.Metrics())
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns all entries sorted by tuple.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tuple.Compare(out[j].Tuple) < 0
	})
	return out
}
