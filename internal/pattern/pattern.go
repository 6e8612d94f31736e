// Package pattern defines the five basic English sentence patterns.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern is one of the five basic English sentence patterns a learner
// classifies a sentence into.
type Pattern int

const (
	// None is the chosen pattern recorded when a question times out.
	None Pattern = iota
	SV
	SVC
	SVO
	SVOO
	SVOC
)

// Count is the number of answerable patterns.
const Count = 5

// All returns the answerable patterns in display order.
func All() []Pattern {
	return []Pattern{SV, SVC, SVO, SVOO, SVOC}
}

// Valid reports whether p is one of the five answerable patterns.
func (p Pattern) Valid() bool {
	return p >= SV && p <= SVOC
}

// String returns the short label, e.g. "SVOO".
func (p Pattern) String() string {
	switch p {
	case None:
		return "-"
	case SV:
		return "SV"
	case SVC:
		return "SVC"
	case SVO:
		return "SVO"
	case SVOO:
		return "SVOO"
	case SVOC:
		return "SVOC"
	default:
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
}

// Description returns a one-line description of the pattern's structure.
func (p Pattern) Description() string {
	switch p {
	case SV:
		return "Subject + Verb"
	case SVC:
		return "Subject + Verb + Complement"
	case SVO:
		return "Subject + Verb + Object"
	case SVOO:
		return "Subject + Verb + Object + Object"
	case SVOC:
		return "Subject + Verb + Object + Complement"
	case None:
		return "No answer"
	default:
		return ""
	}
}

// Parse accepts either the pattern number ("4") or its label ("svoo").
func Parse(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		p := Pattern(n)
		if !p.Valid() {
			return None, fmt.Errorf("pattern number %d out of range 1-%d", n, Count)
		}
		return p, nil
	}
	for _, p := range All() {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return None, fmt.Errorf("unknown pattern %q", s)
}

// FromParts maps the number of objects and complements after the verb onto a
// pattern. Combinations no pattern has report false.
func FromParts(objects, complements int) (Pattern, bool) {
	switch {
	case objects == 0 && complements == 0:
		return SV, true
	case objects == 0 && complements == 1:
		return SVC, true
	case objects == 1 && complements == 0:
		return SVO, true
	case objects == 2 && complements == 0:
		return SVOO, true
	case objects == 1 && complements == 1:
		return SVOC, true
	default:
		return None, false
	}
}
