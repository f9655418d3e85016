package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-maldridge/ncomps/pkg/types"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "(arch i386)", Normalize(" i386 "))
	assert.Equal(t, "(arch i386)", Normalize("(arch i386)"))
	assert.Equal(t, "", Normalize("  "))
}

func TestEvalArch(t *testing.T) {
	e := New(types.ArchList{"i386"}, WithEnvironment(MapEnv{}))

	cases := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"(arch i386)", true},
		{"(arch !i386)", false},
		{"(arch sparc)", false},
		{"(arch !sparc)", true},
		{"(arch i386 and arch !sparc)", true},
		{"(arch i386 and arch sparc)", false},
	}
	for _, c := range cases {
		got, err := e.Eval(c.expr, TagAll)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, got, c.expr)
	}
}

func TestEvalLang(t *testing.T) {
	env := MapEnv{"LANGUAGE": "ja_JP:en_US", "LANG": "de_DE"}
	e := New(types.ArchList{"x86_64"}, WithEnvironment(env))

	ok, err := e.Eval("(lang ja_JP)", TagAll)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Eval("(lang de_DE)", TagAll)
	require.NoError(t, err)
	assert.False(t, ok, "LANGUAGE takes priority over LANG")

	ok, err = e.Eval("(lang !en_US and arch x86_64)", TagAll)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvalLangFallsBackToLang(t *testing.T) {
	e := New(types.ArchList{"x86_64"}, WithEnvironment(MapEnv{"LANGUAGE": "", "LANG": "de_DE"}))

	ok, err := e.Eval("(lang de_DE)", TagAll)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalLangDropped(t *testing.T) {
	noLocale := New(types.ArchList{"x86_64"}, WithEnvironment(MapEnv{}))
	ok, err := noLocale.Eval("(lang ja_JP and arch x86_64)", TagAll)
	require.NoError(t, err)
	assert.True(t, ok, "lang terms hold when no locale is configured")

	all := New(types.ArchList{"x86_64"}, WithEnvironment(MapEnv{"LANG": "en_US"}), WithMatchAllLangs(true))
	ok, err = all.Eval("(lang ja_JP)", TagAll)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = all.Eval("(lang !en_US)", TagAll)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalInactiveTag(t *testing.T) {
	e := New(types.ArchList{"i386"}, WithEnvironment(MapEnv{"LANG": "en_US"}))

	ok, err := e.Eval("(lang ja_JP and arch i386)", TagArch)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Eval("(arch sparc)", TagLang)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalErrors(t *testing.T) {
	e := New(types.ArchList{"i386"}, WithEnvironment(MapEnv{}))

	cases := []struct {
		expr string
		err  error
	}{
		{"arch i386)", ErrMalformedExpression},
		{"(arch i386", ErrMalformedExpression},
		{"()", ErrMalformedExpression},
		{"(arch)", ErrMalformedExpression},
		{"(arch i386 i686)", ErrMalformedExpression},
		{"(arch i386 and)", ErrMalformedExpression},
		{"(os linux)", ErrUnknownTag},
		{"(arch i386 and os linux)", ErrUnknownTag},
	}
	for _, c := range cases {
		_, err := e.Eval(c.expr, TagArch)
		assert.ErrorIs(t, err, c.err, c.expr)
		assert.ErrorIs(t, Validate(c.expr), c.err, c.expr)
	}
	assert.NoError(t, Validate(""))
}

func TestEvalIsRepeatable(t *testing.T) {
	e := New(types.ArchList{"i386"}, WithEnvironment(MapEnv{"LANGUAGE": "ja_JP"}))
	first, err := e.Eval("(lang ja_JP and arch !x86_64)", TagAll)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Eval("(lang ja_JP and arch !x86_64)", TagAll)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLangs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Langs(MapEnv{"LANGUAGE": "a::b"}))
	assert.Equal(t, []string{"c"}, Langs(MapEnv{"LANGUAGE": ":", "LANG": "c"}))
	assert.Nil(t, Langs(MapEnv{}))
	assert.Nil(t, Langs(MapEnv{"LANG": ""}))
}
