// Package rules holds the gamerule registry: every toggle the engine
// understands, its default, bounds and inter-rule requirements, plus the
// validator that keeps client-supplied values usable.
package rules

import "fmt"

// Kind classifies a gamerule value.
type Kind string

const (
	KindBool   Kind = "bool"
	KindNumber Kind = "number"
	KindSelect Kind = "select"
	KindActive Kind = "active"
)

// Rule names. Kept as constants so call sites survive renames.
const (
	Heart10            = "heart10"
	Heart10Prio        = "heart10_prio"
	Heart10Lasttrick   = "heart10_lasttrick"
	Doppelkopf         = "doppelkopf"
	Fox                = "fox"
	FoxLasttrick       = "fox_lasttrick"
	Pigs               = "pigs"
	Superpigs          = "superpigs"
	Charlie            = "charlie"
	CharlieBroken      = "charlie_broken"
	Jane               = "jane"
	CharliePrio        = "charlie_prio"
	Without9           = "without9"
	HeartTrick         = "heart_trick"
	SecBlackTrick      = "sec_black_trick"
	Joker              = "joker"
	Hobgoblin          = "hobgoblin"
	Poverty            = "poverty"
	PovertyConsequence = "poverty_consequence"
	Throw              = "throw"
	ThrowCases         = "throw_cases"
	Coward             = "coward"
	Wedding            = "wedding"
	RepeatGame         = "repeat_game"
	ReKontra           = "re_kontra"
	BuckRound          = "buck_round"
	BuckCause          = "buck_cause"
	BuckAmount         = "buck_amount"
	SoloShiftH10       = "solo_shift_h10"
	SolistBegins       = "solist_begins"
	SoloPrio           = "solo_prio"
	Solos              = "solos"
	OpenCards          = "open_cards"
)

// Option values shared by several rules.
const (
	OptFirst  = "first"
	OptSecond = "second"
	OptNone   = "none"
)

// SoloNames lists every solo the engine knows, in announcement-priority
// order: when solo_prio=prio the earliest entry held by any claimant wins.
var SoloNames = []string{
	"pure_clubs", "pure_spades", "pure_hearts", "pure_diamonds",
	"fleshless", "null",
	"picture", "monastery", "noble_brothel", "brothel",
	"kings", "queens", "jacks",
	"clubs", "spades", "hearts", "diamonds",
}

// ThrowCaseNames lists the hand shapes that justify throwing a round in.
var ThrowCaseNames = []string{
	"five_nines", "five_kings", "four_nines_four_kings",
	"nines_all_colors", "kings_all_colors", "seven_full",
	"no_trump_above_heart_jack", "no_trump_above_diamond_jack",
}

// BuckCauseNames lists the events that can schedule a buck round.
var BuckCauseNames = []string{"four_hearts", "draw", "zero_points", "re_kontra_lost", "solo_lost"}

// Rule describes one gamerule: its kind, default, bounds and requirements.
// Requirements map another rule name to the set of values under which this
// rule is admissible. They gate UI availability, never writes: the engine
// treats a rule with unmet requirements as present-with-default.
type Rule struct {
	Name         string              `json:"name"`
	Kind         Kind                `json:"kind"`
	Default      any                 `json:"default"`
	Min          int                 `json:"min,omitempty"`
	Max          int                 `json:"max,omitempty"`
	Step         int                 `json:"step,omitempty"`
	Options      []string            `json:"options,omitempty"`
	Requirements map[string][]string `json:"requirements,omitempty"`
}

var registry = buildRegistry()

func buildRegistry() map[string]Rule {
	rs := []Rule{
		{Name: Heart10, Kind: KindBool, Default: true},
		{Name: Heart10Prio, Kind: KindSelect, Default: OptSecond, Options: []string{OptFirst, OptSecond},
			Requirements: map[string][]string{Heart10: {"true"}}},
		{Name: Heart10Lasttrick, Kind: KindSelect, Default: OptFirst, Options: []string{OptFirst, OptSecond},
			Requirements: map[string][]string{Heart10: {"true"}}},
		{Name: Doppelkopf, Kind: KindBool, Default: true},
		{Name: Fox, Kind: KindBool, Default: true},
		{Name: FoxLasttrick, Kind: KindBool, Default: false,
			Requirements: map[string][]string{Fox: {"true"}}},
		{Name: Pigs, Kind: KindSelect, Default: OptNone,
			Options: []string{OptNone, "two_reservation", "two_on_play", "one_first", "one_on_play", "one_on_fox"}},
		{Name: Superpigs, Kind: KindSelect, Default: OptNone,
			Options: []string{OptNone, "reservation", "on_play", "on_pig"},
			Requirements: map[string][]string{
				Pigs: {"two_reservation", "two_on_play", "one_first", "one_on_play", "one_on_fox"},
			}},
		{Name: Charlie, Kind: KindBool, Default: true},
		{Name: CharlieBroken, Kind: KindBool, Default: false,
			Requirements: map[string][]string{Charlie: {"true"}}},
		{Name: Jane, Kind: KindBool, Default: false,
			Requirements: map[string][]string{CharlieBroken: {"true"}}},
		{Name: CharliePrio, Kind: KindSelect, Default: OptFirst, Options: []string{OptFirst, OptSecond},
			Requirements: map[string][]string{Charlie: {"true"}}},
		{Name: Without9, Kind: KindSelect, Default: "with_all", Options: []string{"with_all", "with_four", "without"}},
		{Name: HeartTrick, Kind: KindBool, Default: false},
		{Name: SecBlackTrick, Kind: KindBool, Default: false},
		// Jokers replace the two hearts nines, so the full-nines deck is a
		// precondition.
		{Name: Joker, Kind: KindSelect, Default: OptNone,
			Options:      []string{OptNone, "over_h10", "over_pigs", "over_superpigs"},
			Requirements: map[string][]string{Without9: {"with_all"}}},
		{Name: Hobgoblin, Kind: KindBool, Default: false},
		{Name: Poverty, Kind: KindSelect, Default: "sell", Options: []string{OptNone, "sell", "circulate", "circulate_duty"}},
		{Name: PovertyConsequence, Kind: KindSelect, Default: "redeal",
			Options:      []string{OptNone, "redeal", "black_sow", "ramsch"},
			Requirements: map[string][]string{Poverty: {"sell", "circulate", "circulate_duty"}}},
		{Name: Throw, Kind: KindSelect, Default: "reservation", Options: []string{OptNone, "reservation", "throw"}},
		{Name: ThrowCases, Kind: KindActive, Default: []string{"five_nines", "five_kings"}, Options: ThrowCaseNames,
			Requirements: map[string][]string{Throw: {"reservation", "throw"}}},
		{Name: Coward, Kind: KindSelect, Default: OptNone, Options: []string{OptNone, "210_no_re", "240_no_u90"}},
		{Name: Wedding, Kind: KindSelect, Default: "3_trick", Options: []string{OptNone, "3_trick", "wish_trick"}},
		{Name: RepeatGame, Kind: KindBool, Default: false},
		{Name: ReKontra, Kind: KindSelect, Default: "+2", Options: []string{"+2", "*2", "*2_extra"}},
		{Name: BuckRound, Kind: KindSelect, Default: OptNone, Options: []string{OptNone, "succession", "parallel"}},
		{Name: BuckCause, Kind: KindActive, Default: []string{"four_hearts"}, Options: BuckCauseNames,
			Requirements: map[string][]string{BuckRound: {"succession", "parallel"}}},
		{Name: BuckAmount, Kind: KindNumber, Default: 4, Min: 1, Max: 8, Step: 1,
			Requirements: map[string][]string{BuckRound: {"succession", "parallel"}}},
		{Name: SoloShiftH10, Kind: KindBool, Default: false,
			Requirements: map[string][]string{Heart10: {"true"}}},
		{Name: SolistBegins, Kind: KindBool, Default: false},
		{Name: SoloPrio, Kind: KindSelect, Default: OptFirst, Options: []string{OptFirst, "prio"}},
		{Name: Solos, Kind: KindActive, Default: append([]string(nil), SoloNames...), Options: SoloNames},
		{Name: OpenCards, Kind: KindBool, Default: false},
	}

	m := make(map[string]Rule, len(rs))
	for _, r := range rs {
		m[r.Name] = r
	}
	return m
}

// Registry returns the full rule table, keyed by rule name. Callers must not
// mutate the returned rules.
func Registry() map[string]Rule {
	return registry
}

// Export returns the registry as a stable slice for client consumption
// (kind, bounds, options, default, requirements per rule).
func Export() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, name := range exportOrder() {
		out = append(out, registry[name])
	}
	return out
}

func exportOrder() []string {
	return []string{
		Heart10, Heart10Prio, Heart10Lasttrick, Doppelkopf, Fox, FoxLasttrick,
		Pigs, Superpigs, Charlie, CharlieBroken, Jane, CharliePrio, Without9,
		HeartTrick, SecBlackTrick, Joker, Hobgoblin, Poverty, PovertyConsequence,
		Throw, ThrowCases, Coward, Wedding, RepeatGame, ReKontra, BuckRound,
		BuckCause, BuckAmount, SoloShiftH10, SolistBegins, SoloPrio, Solos,
		OpenCards,
	}
}

// Validate normalizes a proposed value for the named rule. The returned value
// is always in-range and safe to store; ok is false when the input had to be
// corrected or the rule is unknown.
func Validate(name string, value any) (bool, any) {
	r, found := registry[name]
	if !found {
		return false, nil
	}

	switch r.Kind {
	case KindBool:
		if b, isBool := value.(bool); isBool {
			return true, b
		}
		return false, r.Default

	case KindNumber:
		n, isNum := toInt(value)
		if !isNum {
			return false, r.Default
		}
		clamped := n
		if clamped < r.Min {
			clamped = r.Min
		}
		if clamped > r.Max {
			clamped = r.Max
		}
		if r.Step > 1 {
			clamped = r.Min + ((clamped-r.Min)/r.Step)*r.Step
		}
		return clamped == n, clamped

	case KindSelect:
		s, isStr := value.(string)
		if !isStr {
			return false, r.Default
		}
		for _, opt := range r.Options {
			if opt == s {
				return true, s
			}
		}
		return false, r.Default

	case KindActive:
		list, isList := toStringList(value)
		if !isList {
			return false, r.Default
		}
		filtered := make([]string, 0, len(list))
		for _, v := range list {
			for _, opt := range r.Options {
				if opt == v {
					filtered = append(filtered, v)
					break
				}
			}
		}
		return len(filtered) == len(list), filtered
	}

	return false, r.Default
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toStringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, isStr := e.(string)
			if !isStr {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Ruleset is a validated bundle of gamerule values. Reads go through the
// requirement check: a rule whose requirements are not met by the rest of the
// set reads as its default.
type Ruleset struct {
	values map[string]any
}

// NewRuleset validates the given values and returns the resulting set.
// Unknown names are dropped, invalid values corrected per Validate.
func NewRuleset(values map[string]any) *Ruleset {
	rs := &Ruleset{values: make(map[string]any, len(registry))}
	for name, v := range values {
		if _, known := registry[name]; !known {
			continue
		}
		_, normalized := Validate(name, v)
		rs.values[name] = normalized
	}
	return rs
}

// DefaultRuleset returns a set holding every rule at its default.
func DefaultRuleset() *Ruleset {
	return NewRuleset(nil)
}

// Values returns a copy of the effective value map, defaults filled in.
func (rs *Ruleset) Values() map[string]any {
	out := make(map[string]any, len(registry))
	for name := range registry {
		out[name] = rs.effective(name)
	}
	return out
}

func (rs *Ruleset) effective(name string) any {
	r, found := registry[name]
	if !found {
		return nil
	}
	if !rs.admissible(name) {
		return r.Default
	}
	if v, set := rs.values[name]; set {
		return v
	}
	return r.Default
}

// admissible reports whether every requirement of the named rule is met by
// the current values.
func (rs *Ruleset) admissible(name string) bool {
	r := registry[name]
	for other, accepted := range r.Requirements {
		actual := fmt.Sprint(rs.rawOrDefault(other))
		met := false
		for _, want := range accepted {
			if want == actual {
				met = true
				break
			}
		}
		if !met {
			return false
		}
	}
	return true
}

func (rs *Ruleset) rawOrDefault(name string) any {
	if v, set := rs.values[name]; set {
		return v
	}
	return registry[name].Default
}

// Bool reads a bool rule.
func (rs *Ruleset) Bool(name string) bool {
	b, _ := rs.effective(name).(bool)
	return b
}

// Int reads a number rule.
func (rs *Ruleset) Int(name string) int {
	n, _ := toInt(rs.effective(name))
	return n
}

// String reads a select rule.
func (rs *Ruleset) String(name string) string {
	s, _ := rs.effective(name).(string)
	return s
}

// List reads an active rule.
func (rs *Ruleset) List(name string) []string {
	l, _ := toStringList(rs.effective(name))
	return l
}

// Active reports whether the given option is switched on in an active rule.
func (rs *Ruleset) Active(name, option string) bool {
	for _, v := range rs.List(name) {
		if v == option {
			return true
		}
	}
	return false
}

// With returns a copy of the set with one value replaced (validated).
func (rs *Ruleset) With(name string, value any) *Ruleset {
	next := make(map[string]any, len(rs.values)+1)
	for k, v := range rs.values {
		next[k] = v
	}
	next[name] = value
	return NewRuleset(next)
}
