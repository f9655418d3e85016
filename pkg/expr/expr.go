// Package expr evaluates the small predicate language used to make
// component file lines and package memberships conditional on the
// locale and the system architecture.
//
// An expression is either empty or has the form
//
//	(tag value and tag !value and ...)
//
// where tag is lang or arch and a leading ! negates the test.
package expr

import (
	"fmt"
	"strings"

	"github.com/the-maldridge/ncomps/pkg/types"
)

// Tag is a set of tag kinds that an evaluation takes into account.
type Tag uint8

const (
	// TagLang covers terms of the form "lang value".
	TagLang Tag = 1 << iota
	// TagArch covers terms of the form "arch value".
	TagArch

	// TagAll enables every tag kind.
	TagAll = TagLang | TagArch
)

func (t Tag) has(o Tag) bool { return t&o != 0 }

// Evaluator holds the context that expressions are evaluated
// against.  It is never mutated after construction and may be used
// from several goroutines.
type Evaluator struct {
	arches        types.ArchList
	matchAllLangs bool
	env           Environment
}

// An Option configures an Evaluator.
type Option func(*Evaluator)

// WithEnvironment replaces the process environment as the source of
// locales.
func WithEnvironment(env Environment) Option {
	return func(e *Evaluator) {
		e.env = env
	}
}

// WithMatchAllLangs makes every lang term succeed without looking at
// the locale.
func WithMatchAllLangs(b bool) Option {
	return func(e *Evaluator) {
		e.matchAllLangs = b
	}
}

// New returns an evaluator for the given architecture list.
func New(arches types.ArchList, opts ...Option) *Evaluator {
	e := &Evaluator{
		arches: arches,
		env:    OSEnv{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Arches returns the architecture list arch terms are checked
// against.
func (e *Evaluator) Arches() types.ArchList {
	return e.arches
}

// MatchAllLangs reports whether lang terms are ignored.
func (e *Evaluator) MatchAllLangs() bool {
	return e.matchAllLangs
}

// Normalize trims an expression and rewrites a bare architecture
// name into the form (arch name).
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "(") {
		return s
	}
	return "(arch " + s + ")"
}

type term struct {
	tag    Tag
	value  string
	negate bool
}

// parse splits an expression into its terms, validating structure
// and tags but not evaluating anything.
func parse(s string) ([]term, error) {
	if !strings.HasPrefix(s, "(") {
		return nil, fmt.Errorf("%w: missing '(' in %q", ErrMalformedExpression, s)
	}
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("%w: missing ')' in %q", ErrMalformedExpression, s)
	}

	var terms []term
	var cur []string
	flush := func() error {
		if len(cur) != 2 {
			return fmt.Errorf("%w: term %q needs a tag and one value", ErrMalformedExpression, strings.Join(cur, " "))
		}
		t := term{value: cur[1]}
		switch cur[0] {
		case "lang":
			t.tag = TagLang
		case "arch":
			t.tag = TagArch
		default:
			return fmt.Errorf("%w: %q", ErrUnknownTag, cur[0])
		}
		if strings.HasPrefix(t.value, "!") {
			t.negate = true
			t.value = t.value[1:]
		}
		terms = append(terms, t)
		cur = nil
		return nil
	}

	for _, tok := range strings.Fields(s[1 : len(s)-1]) {
		if tok == "and" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		cur = append(cur, tok)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return terms, nil
}

// Validate checks an expression for structural errors without
// evaluating it.
func Validate(s string) error {
	if s == "" {
		return nil
	}
	_, err := parse(s)
	return err
}

// Eval reports whether the expression holds for the evaluator's
// context.  Terms whose tag kind is not in tags are treated as true,
// as are lang terms when no locale is configured or all languages
// match.
func (e *Evaluator) Eval(s string, tags Tag) (bool, error) {
	if s == "" {
		return true, nil
	}
	terms, err := parse(s)
	if err != nil {
		return false, err
	}

	var langs []string
	if tags.has(TagLang) {
		if e.matchAllLangs {
			tags &^= TagLang
		} else if langs = Langs(e.env); langs == nil {
			tags &^= TagLang
		}
	}
	if tags.has(TagArch) && len(e.arches) == 0 {
		tags &^= TagArch
	}

	truth := true
	for _, t := range terms {
		if !tags.has(t.tag) {
			continue
		}
		var found bool
		switch t.tag {
		case TagLang:
			found = contains(langs, t.value)
		case TagArch:
			found = e.arches.Contains(t.value)
		}
		if found == t.negate {
			truth = false
		}
	}
	return truth, nil
}

func contains(l []string, s string) bool {
	for _, x := range l {
		if x == s {
			return true
		}
	}
	return false
}
