package comps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/ncomps/pkg/expr"
	"github.com/the-maldridge/ncomps/pkg/fetch"
	"github.com/the-maldridge/ncomps/pkg/hdrlist"
	"github.com/the-maldridge/ncomps/pkg/types"
)

type sized struct {
	name string
	size int64
}

func headerList(t *testing.T, pkgs ...sized) *hdrlist.HeaderList {
	t.Helper()
	hdrs := make([]types.Header, len(pkgs))
	for i, p := range pkgs {
		hdrs[i] = types.Header{Name: p.name, Size: p.size}
	}
	hl, err := hdrlist.New(hdrs, hdrlist.WithoutScoring())
	require.NoError(t, err)
	return hl
}

func names(pkgs ...string) []sized {
	out := make([]sized, len(pkgs))
	for i, n := range pkgs {
		out[i] = sized{name: n, size: 1}
	}
	return out
}

func parse(hl *hdrlist.HeaderList, body string, opts ...Option) (*Set, error) {
	opts = append([]Option{
		WithArchList(types.ArchList{"i386"}),
		WithEnvironment(expr.MapEnv{"LANG": "en_US"}),
	}, opts...)
	return Parse(strings.NewReader(body), hl, opts...)
}

func mustParse(t *testing.T, hl *hdrlist.HeaderList, body string, opts ...Option) *Set {
	t.Helper()
	s, err := parse(hl, body, opts...)
	require.NoError(t, err)
	return s
}

func TestVersionGate(t *testing.T) {
	hl := headerList(t, names("A")...)

	_, err := parse(hl, "5\n0 X {\nA\n}\n")
	assert.ErrorIs(t, err, ErrUnsupportedCompsVersion)

	_, err = parse(hl, "")
	assert.ErrorIs(t, err, ErrUnsupportedCompsVersion)

	for _, v := range []string{"3", "4", " 4 "} {
		s, err := parse(hl, v+"\n")
		require.NoError(t, err, v)
		assert.Equal(t, strings.TrimSpace(v), s.Version())
	}
}

func TestSimpleDefaultOn(t *testing.T) {
	hl := headerList(t, sized{"A", 100}, sized{"B", 50})
	s := mustParse(t, hl, "3\n1 Base {\nA\nB\n}\n")

	assert.True(t, hl.Lookup("A").IsSelected())
	assert.True(t, hl.Lookup("B").IsSelected())
	assert.EqualValues(t, 150, s.SelectedSize())
	assert.EqualValues(t, 150, s.TotalSize())

	base := s.Lookup("Base")
	require.NotNil(t, base)
	assert.True(t, base.Hidden())
	assert.True(t, base.DefaultOn())
	assert.True(t, base.IsManuallySelected())
	assert.Equal(t, []string{"Base", EverythingName}, s.Keys())
}

func TestConditionalMembership(t *testing.T) {
	hl := headerList(t, names("A")...)

	_, err := parse(hl, "4\n0 X {\n? Y {\nA\n}\n}\n0 Y { }\n")
	assert.ErrorIs(t, err, ErrUnknownInclude)

	s := mustParse(t, hl, "4\n0 Y { }\n0 X {\n? Y {\nA\n}\n}\n")
	a := hl.Lookup("A")
	x, y := s.Lookup("X"), s.Lookup("Y")
	assert.False(t, a.IsSelected())

	x.Select()
	assert.False(t, a.IsSelected())
	x.Unselect()

	y.Select()
	assert.False(t, a.IsSelected())

	x.Select()
	assert.True(t, a.IsSelected())

	y.Unselect()
	assert.False(t, a.IsSelected())

	assert.Contains(t, x.Packages(), a)
	assert.Contains(t, y.Packages(), a)
}

func TestIncludePropagation(t *testing.T) {
	hl := headerList(t, names("P")...)
	s := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n0 Parent {\n@Leaf\n}\n")
	leaf, parent := s.Lookup("Leaf"), s.Lookup("Parent")
	p := hl.Lookup("P")

	require.Equal(t, []*Component{leaf}, parent.Includes())

	parent.Select()
	assert.Equal(t, 1, leaf.IncludeCount())
	assert.True(t, leaf.IsSelected())
	assert.False(t, leaf.IsManuallySelected())
	assert.True(t, p.IsSelected())

	parent.Unselect()
	assert.Equal(t, 0, leaf.IncludeCount())
	assert.False(t, leaf.IsSelected())
	assert.False(t, p.IsSelected())
}

func TestIncludeCountSaturates(t *testing.T) {
	hl := headerList(t, names("P")...)
	s := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n0 Parent {\n@Leaf\n}\n")

	s.Lookup("Parent").Unselect()
	s.Lookup("Parent").Unselect()
	assert.Equal(t, 0, s.Lookup("Leaf").IncludeCount())
}

func TestManualSurvivesInclude(t *testing.T) {
	hl := headerList(t, names("P")...)
	s := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n0 Parent {\n@Leaf\n}\n")
	leaf, parent := s.Lookup("Leaf"), s.Lookup("Parent")

	leaf.Select()
	parent.Select()
	parent.Unselect()
	assert.True(t, leaf.IsSelected())
	assert.True(t, hl.Lookup("P").IsSelected())
}

func TestArchFilteredLine(t *testing.T) {
	hl := headerList(t, names("only-x86-pkg")...)
	s := mustParse(t, hl, "4\n0 Opt {\n(arch i386): only-x86-pkg\n(arch !i386): never-here\n}\n")
	opt := s.Lookup("Opt")

	opt.Select()
	assert.True(t, hl.Lookup("only-x86-pkg").IsSelected())
	assert.Len(t, opt.Packages(), 1)

	m, ok := opt.Membership(hl.Lookup("only-x86-pkg"))
	require.True(t, ok)
	assert.Equal(t, Conditional{"(arch i386)"}, m)
}

func TestBareArchPrefix(t *testing.T) {
	hl := headerList(t, names("A", "B")...)
	s := mustParse(t, hl, "4\n0 Opt {\ni386: A\nx86_64: B\n}\n")
	opt := s.Lookup("Opt")

	assert.Len(t, opt.Packages(), 1)
	m, _ := opt.Membership(hl.Lookup("A"))
	assert.Equal(t, Conditional{"(arch i386)"}, m)
}

func TestSnapshotRestore(t *testing.T) {
	hl := headerList(t, names("P")...)
	s := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n0 Parent {\n@Leaf\n}\n")
	p := hl.Lookup("P")
	s.Lookup("Parent").Select()

	snap := s.Snapshot()
	p.ForceUnselect()
	assert.False(t, p.IsSelected())
	s.Lookup("Parent").Unselect()

	require.NoError(t, s.Restore(snap))
	assert.True(t, p.IsSelected())
	assert.Equal(t, hdrlist.CheckChain, p.State())
	assert.Equal(t, 1, s.Lookup("Leaf").IncludeCount())
	assert.Equal(t, snap, s.Snapshot())
}

func TestRestoreDoesNotRecompute(t *testing.T) {
	hl := headerList(t, names("P")...)
	s := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n")

	snap := s.Snapshot()
	snap.Packages[0].Selected = true
	require.NoError(t, s.Restore(snap))
	assert.True(t, hl.Lookup("P").IsSelected(), "cache is restored verbatim")
}

func TestSnapshotJSON(t *testing.T) {
	hl := headerList(t, names("P", "Q")...)
	s := mustParse(t, hl, "4\n1 Leaf {\nP\n}\n")
	hl.Lookup("Q").ForceSelect()
	snap := s.Snapshot()

	b, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(b), "FORCE_SELECT")

	s.Lookup("Leaf").Unselect()
	hl.Lookup("Q").Unforce()

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NoError(t, s.Restore(decoded))
	assert.True(t, hl.Lookup("P").IsSelected())
	assert.Equal(t, hdrlist.ForceSelect, hl.Lookup("Q").State())
}

func TestSnapshotMismatch(t *testing.T) {
	hl := headerList(t, names("P")...)
	a := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n")
	b := mustParse(t, headerList(t, names("P")...), "4\n0 Other {\nP\n}\n")
	c := mustParse(t, headerList(t, names("P", "Q")...), "4\n0 Leaf {\nP\n}\n")

	assert.ErrorIs(t, b.Restore(a.Snapshot()), ErrSnapshotMismatch)
	assert.ErrorIs(t, c.Restore(a.Snapshot()), ErrSnapshotMismatch)
	assert.ErrorIs(t, a.Restore(Snapshot{}), ErrSnapshotMismatch)

	snap := a.Snapshot()
	snap.Components[0].IncludeCount = -1
	assert.ErrorIs(t, a.Restore(snap), ErrSnapshotMismatch)
	assert.Zero(t, a.Lookup("Leaf").IncludeCount())
}

func TestEverything(t *testing.T) {
	hl := headerList(t, names("bash", "kernel", "kernel-smp", "XFree86-S3", "orphan")...)
	s := mustParse(t, hl, "4\n0 Shell {\nbash\n}\n")

	ev := s.Everything()
	require.NotNil(t, ev)
	assert.Same(t, ev, s.ByIndex(s.Len()-1))
	assert.True(t, ev.Hidden())
	assert.False(t, ev.DefaultOn())

	var got []string
	for _, p := range ev.Packages() {
		got = append(got, p.Name())
		assert.False(t, IsExcluded(p.Name()))
	}
	assert.Equal(t, []string{"bash", "orphan"}, got)

	ev.Select()
	assert.True(t, hl.Lookup("orphan").IsSelected())
	assert.False(t, hl.Lookup("kernel").IsSelected())
}

func TestEverythingLastExpressionWins(t *testing.T) {
	hl := headerList(t, names("A")...)

	s := mustParse(t, hl, "4\n0 X {\n(lang ja_JP): A\n}\n0 Y {\nA\n}\n")
	m, _ := s.Everything().Membership(hl.Lookup("A"))
	assert.Equal(t, Unconditional{}, m)

	hl = headerList(t, names("A")...)
	s = mustParse(t, hl, "4\n0 Y {\nA\n}\n0 X {\n(lang ja_JP): A\n}\n")
	m, _ = s.Everything().Membership(hl.Lookup("A"))
	assert.Equal(t, Conditional{"(lang ja_JP)"}, m)

	s.Everything().Select()
	assert.False(t, hl.Lookup("A").IsSelected(), "LANG is en_US")
}

func TestAddPackageWithExpressionAppends(t *testing.T) {
	hl := headerList(t, names("A")...)
	s := mustParse(t, hl, "4\n0 X {\n(lang ja_JP): A\n(arch i386): A\n}\n")
	a := hl.Lookup("A")

	m, _ := s.Lookup("X").Membership(a)
	assert.Equal(t, Conditional{"(lang ja_JP)", "(arch i386)"}, m)
	assert.Len(t, a.Chains(), 2, "one chain from X, one from Everything")

	s.Lookup("X").Select()
	assert.True(t, a.IsSelected())
}

func TestAddPackageWithExpressionOverwritesUnconditional(t *testing.T) {
	hl := headerList(t, names("A")...)
	s := mustParse(t, hl, "4\n0 X {\nA\n(lang ja_JP): A\n}\n")
	a := hl.Lookup("A")

	m, _ := s.Lookup("X").Membership(a)
	assert.Equal(t, Conditional{"(lang ja_JP)"}, m)
	assert.Len(t, a.Chains(), 2)

	s.Lookup("X").Select()
	assert.False(t, a.IsSelected())
}

func TestLangMembership(t *testing.T) {
	body := "4\n0 Japanese {\n(lang ja_JP): kinput2\n}\n"

	hl := headerList(t, names("kinput2")...)
	s := mustParse(t, hl, body, WithEnvironment(expr.MapEnv{"LANGUAGE": "ja_JP:en_US"}))
	s.Lookup("Japanese").Select()
	assert.True(t, hl.Lookup("kinput2").IsSelected())

	hl = headerList(t, names("kinput2")...)
	s = mustParse(t, hl, body)
	s.Lookup("Japanese").Select()
	assert.False(t, hl.Lookup("kinput2").IsSelected())

	hl = headerList(t, names("kinput2")...)
	s = mustParse(t, hl, body, WithMatchAllLangs(true))
	s.Lookup("Japanese").Select()
	assert.True(t, hl.Lookup("kinput2").IsSelected())
}

func TestForceOverridesChains(t *testing.T) {
	hl := headerList(t, names("A")...)
	s := mustParse(t, hl, "4\n0 X {\nA\n}\n")
	a := hl.Lookup("A")

	a.ForceSelect()
	assert.True(t, a.IsSelected())
	s.Lookup("X").Select()
	s.Lookup("X").Unselect()
	assert.True(t, a.IsSelected())

	a.ForceUnselect()
	s.Lookup("X").Select()
	assert.False(t, a.IsSelected())
	assert.Empty(t, s.SelectedPackages())
}

func TestComponentNames(t *testing.T) {
	hl := headerList(t, names("xterm", "mc")...)
	s := mustParse(t, hl, "4\n0 --hide X Window System {\nxterm\n}\n1 Workstation {\n@X Window System\nmc\n}\n")

	xw := s.Lookup("X Window System")
	require.NotNil(t, xw)
	assert.True(t, xw.Hidden())
	assert.False(t, s.Lookup("Workstation").Hidden())
	assert.True(t, xw.IsSelected(), "included by a default component")
	assert.Equal(t, []string{"X Window System", "Workstation", EverythingName}, s.Keys())
	assert.Equal(t, "Workstation", s.ByIndex(1).Name())
	assert.Len(t, s.Components(), 3)
}

func TestParseErrors(t *testing.T) {
	hl := headerList(t, names("A")...)

	cases := []struct {
		name string
		body string
		err  error
		line int
	}{
		{"unknown package", "4\n0 X {\nB\n}\n", ErrUnknownPackage, 3},
		{"unknown include", "4\n0 X {\n@Y\n}\n", ErrUnknownInclude, 3},
		{"self include", "4\n0 X {\n@X\n}\n", ErrUnknownInclude, 3},
		{"duplicate", "4\n0 X {\n}\n0 X {\n}\n", ErrDuplicateComponent, 4},
		{"everything reserved", "4\n0 Everything {\n}\n", ErrDuplicateComponent, 2},
		{"package at top level", "4\nA\n", ErrSyntax, 2},
		{"bad default", "4\n2 X {\n}\n", ErrSyntax, 2},
		{"no name", "4\n1 --hide {\n}\n", ErrSyntax, 2},
		{"unclosed", "4\n0 X {\nA\n", ErrSyntax, 3},
		{"nested component", "4\n0 X {\n0 Y {\n}\n}\n", ErrSyntax, 3},
		{"nested conditional", "4\n0 Y {\n}\n0 X {\n? Y {\n? Y {\n}\n}\n}\n", ErrSyntax, 6},
		{"malformed expression", "4\n0 X {\n(arch i386: A\n}\n", expr.ErrMalformedExpression, 3},
		{"unknown tag", "4\n0 X {\n(os linux): A\n}\n", expr.ErrUnknownTag, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parse(hl, c.body)
			require.ErrorIs(t, err, c.err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, c.line, pe.Line)
		})
	}
}

func TestBlankLinesAndWhitespace(t *testing.T) {
	hl := headerList(t, names("A")...)
	s := mustParse(t, hl, "4\n\n   1 Base {   \n\n\t A \n }\n\n")
	assert.True(t, hl.Lookup("A").IsSelected())
	assert.Len(t, s.Lookup("Base").Packages(), 1)
}

func TestString(t *testing.T) {
	hl := headerList(t, names("P")...)
	s := mustParse(t, hl, "4\n0 Leaf {\nP\n}\n1 Parent {\n@Leaf\n}\n")

	out := s.String()
	assert.Contains(t, out, "comps v4 (3 components)")
	assert.Contains(t, out, "* Parent\n")
	assert.Contains(t, out, "+ Leaf\n")
	assert.Contains(t, out, "  Everything (hidden)\n")
}

func TestNewFetchesWithRetry(t *testing.T) {
	hl := headerList(t, names("A")...)
	calls := 0
	f := fetch.FetcherFunc(func(ctx context.Context, uri string) ([]byte, error) {
		calls++
		assert.Equal(t, "http://mirror/comps", uri)
		if calls == 1 {
			return nil, fetch.Transient(errors.New("connection refused"))
		}
		return []byte("4\n1 Base {\nA\n}\n"), nil
	})

	s, err := New(context.Background(), f, "http://mirror/comps", hl,
		WithLogger(hclog.NewNullLogger()),
		WithArchList(types.ArchList{"i386"}),
		WithRetryPolicy(fetch.ConstantPolicy(time.Millisecond, 0)),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, hl.Lookup("A").IsSelected())
	assert.Equal(t, types.ArchList{"i386"}, s.Evaluator().Arches())
}

func TestNewSurfacesPermanentFetchErrors(t *testing.T) {
	boom := errors.New("404")
	f := fetch.FetcherFunc(func(context.Context, string) ([]byte, error) { return nil, boom })

	_, err := New(context.Background(), f, "x", headerList(t), WithRetryPolicy(fetch.ConstantPolicy(time.Millisecond, 0)))
	assert.ErrorIs(t, err, boom)
}
