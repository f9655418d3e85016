package comps

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/the-maldridge/ncomps/pkg/expr"
)

// parser carries the context of the line being read.  cur is the
// open component, cond the open ? block inside it.
type parser struct {
	s    *Set
	cur  *Component
	cond *Component
}

func (s *Set) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return err
		}
		return &ParseError{Line: 1, Err: ErrUnsupportedCompsVersion}
	}
	s.version = strings.TrimSpace(sc.Text())
	if s.version != "3" && s.version != "4" {
		return &ParseError{Line: 1, Text: s.version, Err: ErrUnsupportedCompsVersion}
	}

	p := parser{s: s}
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		s.l.Trace("Parsing line", "line", line, "text", text)
		if err := p.parseLine(text); err != nil {
			return &ParseError{Line: line, Text: text, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if p.cur != nil {
		return &ParseError{Line: line, Err: fmt.Errorf("%w: component %q is not closed", ErrSyntax, p.cur.name)}
	}
	return nil
}

func (p *parser) parseLine(l string) error {
	var e string
	if i := strings.Index(l, ":"); i >= 0 {
		e = expr.Normalize(l[:i])
		l = strings.TrimSpace(l[i+1:])
		ok, err := p.s.eval.Eval(e, expr.TagArch)
		if err != nil {
			return err
		}
		if !ok {
			p.s.l.Trace("Skipping line for other arch", "expr", e, "text", l)
			return nil
		}
		if l == "" {
			return nil
		}
	}

	switch {
	case p.cur == nil:
		return p.open(l)
	case l == "}":
		p.close()
		return nil
	case strings.HasPrefix(l, "@"):
		return p.include(strings.TrimSpace(l[1:]))
	case strings.HasPrefix(l, "?"):
		return p.openConditional(strings.TrimSpace(l[1:]))
	case strings.HasSuffix(l, "{"):
		return fmt.Errorf("%w: component opened inside %q", ErrSyntax, p.cur.name)
	default:
		return p.pkg(l, e)
	}
}

// open handles "default [--hide] name {", and the one line form
// "default name { }".
func (p *parser) open(l string) error {
	closeNow := false
	if strings.HasSuffix(l, "}") {
		inner := strings.TrimSpace(strings.TrimSuffix(l, "}"))
		if strings.HasSuffix(inner, "{") {
			l = inner
			closeNow = true
		}
	}
	if !strings.HasSuffix(l, "{") {
		return fmt.Errorf("%w: expected a component declaration", ErrSyntax)
	}

	f := strings.Fields(strings.TrimSuffix(l, "{"))
	if len(f) < 2 || (f[0] != "0" && f[0] != "1") {
		return fmt.Errorf("%w: expected '0|1 [--hide] name {'", ErrSyntax)
	}
	defaultOn := f[0] == "1"
	f = f[1:]
	hide := false
	if f[0] == "--hide" {
		hide = true
		f = f[1:]
	}
	if len(f) == 0 {
		return fmt.Errorf("%w: component without a name", ErrSyntax)
	}
	name := strings.Join(f, " ")
	if _, exists := p.s.byName[name]; exists || name == EverythingName {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}

	p.cur = newComponent(p.s, name, hide || name == "Base", defaultOn)
	p.s.l.Debug("Opened component", "component", name, "default", defaultOn, "hidden", p.cur.hidden)
	if closeNow {
		p.close()
	}
	return nil
}

func (p *parser) close() {
	if p.cond != nil {
		p.cond = nil
		return
	}
	p.s.add(p.cur)
	p.cur = nil
}

func (p *parser) include(name string) error {
	if p.cond != nil {
		return fmt.Errorf("%w: include inside conditional block", ErrSyntax)
	}
	o, ok := p.s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInclude, name)
	}
	p.cur.addInclude(o)
	return nil
}

func (p *parser) openConditional(l string) error {
	if p.cond != nil {
		return fmt.Errorf("%w: nested conditional block", ErrSyntax)
	}
	if !strings.HasSuffix(l, "{") {
		return fmt.Errorf("%w: expected '? name {'", ErrSyntax)
	}
	name := strings.TrimSpace(strings.TrimSuffix(l, "{"))
	o, ok := p.s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInclude, name)
	}
	p.cond = o
	return nil
}

func (p *parser) pkg(name, e string) error {
	pkg := p.s.hl.Lookup(name)
	if pkg == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPackage, name)
	}

	switch {
	case p.cond != nil:
		p.cur.addConditionalPackage(p.cond, pkg)
		p.cond.addConditionalPackage(p.cur, pkg)
	case e != "":
		p.cur.addPackageWithExpression(e, pkg)
		p.s.pkgExprs[pkg] = Conditional{e}
	default:
		p.cur.addPackage(pkg)
		p.s.pkgExprs[pkg] = Unconditional{}
	}
	return nil
}
