// Package featureflags evaluates runtime switches from FEATURE_FLAGS.
package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flags read by the application.
const (
	// FeedSectionIsolation renders a failing home feed section as null instead
	// of failing the whole request.
	FeedSectionIsolation = "feed_section_isolation"
)

// Known describes the flags the code actually reads.
var Known = map[string]string{
	FeedSectionIsolation: "Render a failing home feed section as null instead of failing the request",
}

// rule is one parsed flag value. percent is only meaningful for rollouts.
type rule struct {
	raw     string
	on      bool
	rollout bool
	percent uint32
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "feed_section_isolation=on,canary_feed=25%"
type Manager struct {
	rules   map[string]rule
	invalid []string
}

// State is the evaluated view of one flag for one customer.
type State struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Enabled     bool   `json:"enabled"`
	Known       bool   `json:"known"`
	Description string `json:"description,omitempty"`
}

// NewManager parses a comma-separated flag list. Entries that are not
// key=value, or whose value is not on/off/N%, are recorded in Invalid.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule)}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key, value = normalize(key), normalize(value)
		if !ok || key == "" || value == "" {
			m.invalid = append(m.invalid, pair)
			continue
		}
		r, ok := parseRule(value)
		if !ok {
			m.invalid = append(m.invalid, pair)
			continue
		}
		m.rules[key] = r
	}

	return m
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{raw: value, on: true}, true
	case "off", "false", "0":
		return rule{raw: value}, true
	}
	pct, found := strings.CutSuffix(value, "%")
	if !found {
		return rule{}, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil || n < 0 {
		return rule{}, false
	}
	if n > 100 {
		n = 100
	}
	return rule{raw: value, rollout: true, percent: uint32(n)}, true
}

// Enabled reports whether name is on for customerID. Percentage rollouts
// bucket customers deterministically and never include anonymous callers
// unless the rollout is 100%.
func (m *Manager) Enabled(name string, customerID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	if !r.rollout {
		return r.on
	}
	switch {
	case r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case customerID == 0:
		return false
	}
	return bucket(normalize(name), customerID) < r.percent
}

// Invalid lists entries NewManager could not parse.
func (m *Manager) Invalid() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.invalid...)
}

// States evaluates every configured flag, plus every known flag that is not
// configured, for customerID. The result is sorted by name.
func (m *Manager) States(customerID uint) []State {
	names := make(map[string]struct{}, len(Known))
	for name := range Known {
		names[name] = struct{}{}
	}
	if m != nil {
		for name := range m.rules {
			names[name] = struct{}{}
		}
	}

	out := make([]State, 0, len(names))
	for name := range names {
		desc, known := Known[name]
		s := State{Name: name, Known: known, Description: desc, Enabled: m.Enabled(name, customerID)}
		if m != nil {
			s.Value = m.rules[name].raw
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, customerID uint) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(customerID), 10)))
	return h.Sum32() % 100
}
