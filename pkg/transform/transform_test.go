package transform

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

const testTheme = `{"colors":{"primary":"tomato"},"spacing":{"unit":8}}`

var classPattern = regexp.MustCompile(`"cls_[0-9a-f]{8}"`)

func TestTransformBasicComponentRule(t *testing.T) {
	t.Parallel()

	res, err := Transform("src/Button.tsx", "const b = css({ color: 'red' })", Options{})
	require.NoError(t, err)

	require.Regexp(t, classPattern, res.Code)
	require.NotContains(t, res.Code, "css(")
	require.Len(t, res.CSSRules, 1)
	rule := res.CSSRules[0]
	require.Regexp(t, `^[0-9a-f]{8}$`, rule.Hash)
	require.Contains(t, rule.CSS, "color:red")
	require.Equal(t, ".cls_"+rule.Hash+"{color:red}", rule.CSS)
	require.Contains(t, res.Code, `"cls_`+rule.Hash+`"`)
	require.Empty(t, res.GlobalCSS)
	require.Empty(t, res.Keyframes)
}

func TestTransformThemeResolution(t *testing.T) {
	t.Parallel()

	src := "const b = css(({theme}) => ({ color: theme.colors.primary, padding: theme.spacing.unit * 2 }))"
	res, err := Transform("src/Button.tsx", src, Options{ThemeJSON: testTheme})
	require.NoError(t, err)

	require.Len(t, res.CSSRules, 1)
	require.Contains(t, res.CSSRules[0].CSS, "color:tomato")
	require.Contains(t, res.CSSRules[0].CSS, "padding:16px")
	require.NotContains(t, res.Code, "theme")
}

func TestTransformArrowBlockBody(t *testing.T) {
	t.Parallel()

	src := "const b = css(({theme}) => { return { color: theme.colors.primary } })"
	res, err := Transform("a.tsx", src, Options{ThemeJSON: testTheme})
	require.NoError(t, err)
	require.Len(t, res.CSSRules, 1)
	require.Contains(t, res.CSSRules[0].CSS, "color:tomato")
}

func TestTransformHashStableAcrossFiles(t *testing.T) {
	t.Parallel()

	src := "const a = css({ color: 'red', padding: '8px' })"
	first, err := Transform("src/A.tsx", src, Options{})
	require.NoError(t, err)
	second, err := Transform("lib/B.tsx", src, Options{})
	require.NoError(t, err)

	require.Equal(t, first.CSSRules[0].Hash, second.CSSRules[0].Hash)
	require.Equal(t, first.CSSRules[0].CSS, second.CSSRules[0].CSS)
}

func TestTransformDeterministic(t *testing.T) {
	t.Parallel()

	src := "const a = css({ color: 'red' });\nconst k = keyframes`from{opacity:0}to{opacity:1}`;"
	first, err := Transform("a.tsx", src, Options{ThemeJSON: testTheme, SourceMaps: true})
	require.NoError(t, err)
	second, err := Transform("a.tsx", src, Options{ThemeJSON: testTheme, SourceMaps: true})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTransformDynamicValueError(t *testing.T) {
	t.Parallel()

	_, err := Transform("src/C.tsx", "const x = css({ color: someVar })", Options{})
	require.Error(t, err)
	require.Regexp(t, `src/C\.tsx:\d+:\d+`, err.Error())
	require.Contains(t, err.Error(), "color")
	require.Contains(t, err.Error(), "someVar")
	require.Contains(t, err.Error(), "Hint:")
	require.True(t, taikoerrors.IsKind(err, taikoerrors.KindDynamicValue))
}

func TestTransformKeyframesReference(t *testing.T) {
	t.Parallel()

	src := "const f = keyframes`from{opacity:0}to{opacity:1}`;\nconst e = css({ animation: `${f} 1s` });"
	res, err := Transform("a.tsx", src, Options{})
	require.NoError(t, err)

	require.Len(t, res.Keyframes, 1)
	kf := res.Keyframes[0]
	require.Regexp(t, `^kf_[0-9a-f]{8}$`, kf.Name)
	require.Equal(t, "kf_"+kf.Hash, kf.Name)
	require.Contains(t, kf.CSS, "@keyframes "+kf.Name)
	require.Contains(t, kf.CSS, "opacity:0")

	require.Len(t, res.CSSRules, 1)
	require.Contains(t, res.CSSRules[0].CSS, kf.Name+" 1s")

	require.Contains(t, res.Code, `"`+kf.Name+`"`)
	require.NotContains(t, res.Code, "keyframes`")
}

func TestTransformForwardKeyframesReferenceFails(t *testing.T) {
	t.Parallel()

	src := "const e = css({ animation: `${f} 1s` });\nconst f = keyframes`from{opacity:0}`;"
	_, err := Transform("a.tsx", src, Options{})
	require.Error(t, err)
	require.True(t, taikoerrors.IsKind(err, taikoerrors.KindForwardKeyframesReference))
	require.Contains(t, err.Error(), "a.tsx:1:")
}

func TestTransformContainerSpread(t *testing.T) {
	t.Parallel()

	res, err := Transform("a.tsx", "const s = css({ ...container('sidebar','inline-size'), width: '250px' })", Options{})
	require.NoError(t, err)

	css := res.CSSRules[0].CSS
	require.Contains(t, css, "container-type:inline-size")
	require.Contains(t, css, "container-name:sidebar")
	require.Contains(t, css, "width:250px")
}

func TestTransformContainerSingleArgument(t *testing.T) {
	t.Parallel()

	res, err := Transform("a.tsx", "const s = css({ ...container('inline-size') })", Options{})
	require.NoError(t, err)
	require.Equal(t, ".cls_"+res.CSSRules[0].Hash+"{container-type:inline-size}", res.CSSRules[0].CSS)
}

func TestTransformContainerErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		kind taikoerrors.Kind
	}{
		{"outside spread", "const x = container('size')", taikoerrors.KindBadContainerCall},
		{"bad type", "const s = css({ ...container('sideways') })", taikoerrors.KindBadContainerCall},
		{"bad arity", "const s = css({ ...container('a','size','x') })", taikoerrors.KindBadContainerCall},
		{"non-literal argument", "const s = css({ ...container(kind) })", taikoerrors.KindBadContainerCall},
		{"spread of identifier", "const s = css({ ...other })", taikoerrors.KindBadSpread},
		{"spread of other call", "const s = css({ ...mixin() })", taikoerrors.KindUnsupportedExpression},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Transform("a.tsx", tc.src, Options{})
			require.Error(t, err)
			require.True(t, taikoerrors.IsKind(err, tc.kind), "got: %v", err)
		})
	}
}

func TestTransformUnsupportedExpressions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		kind taikoerrors.Kind
	}{
		{"ternary", "const x = css({ color: big ? 'red' : 'blue' })", taikoerrors.KindUnsupportedExpression},
		{"computed member", "const x = css(({theme}) => ({ color: theme.colors[key] }))", taikoerrors.KindUnsupportedExpression},
		{"modulo operator", "const x = css(({theme}) => ({ padding: theme.spacing.unit % 3 }))", taikoerrors.KindUnsupportedExpression},
		{"division by zero", "const x = css(({theme}) => ({ padding: theme.spacing.unit / 0 }))", taikoerrors.KindDynamicValue},
		{"unknown theme path", "const x = css(({theme}) => ({ color: theme.colors.missing }))", taikoerrors.KindUnknownThemePath},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Transform("a.tsx", tc.src, Options{ThemeJSON: testTheme})
			require.Error(t, err)
			require.True(t, taikoerrors.IsKind(err, tc.kind), "got: %v", err)
		})
	}
}

func TestTransformUnknownThemePathMessage(t *testing.T) {
	t.Parallel()

	_, err := Transform("src/C.tsx", "const x = css(({theme}) => ({ color: theme.colors.missing }))", Options{ThemeJSON: testTheme})
	require.Error(t, err)
	require.Regexp(t, `src/C\.tsx:\d+:\d+: css\(\) — `, err.Error())
	require.Contains(t, err.Error(), "theme.colors.missing")
}

func TestTransformGlobalCSS(t *testing.T) {
	t.Parallel()

	res, err := Transform("a.tsx", "globalCss`body { margin: 0; }`;", Options{})
	require.NoError(t, err)

	require.Len(t, res.GlobalCSS, 1)
	require.Equal(t, "body{margin:0}", res.GlobalCSS[0].CSS)
	require.Contains(t, res.Code, "undefined")
	require.NotContains(t, res.Code, "globalCss`")
}

func TestTransformNumberUnits(t *testing.T) {
	t.Parallel()

	res, err := Transform("a.tsx", "const s = css({ padding: 0, width: 16, opacity: 0.5, zIndex: 3, lineHeight: 1.5 })", Options{})
	require.NoError(t, err)

	css := res.CSSRules[0].CSS
	require.Contains(t, css, "padding:0")
	require.NotContains(t, css, "0px")
	require.Contains(t, css, "width:16px")
	require.NotContains(t, css, "16.0")
	require.Contains(t, css, "opacity:.5")
	require.Contains(t, css, "z-index:3")
	require.Contains(t, css, "line-height:1.5")
}

func TestTransformNestedSelectorsAndAtRules(t *testing.T) {
	t.Parallel()

	src := `const s = css({
  color: 'red',
  '&:hover': { color: 'blue' },
  '@media (min-width: 600px)': { padding: 4 },
  'span': { fontWeight: 700 },
})`
	res, err := Transform("a.tsx", src, Options{})
	require.NoError(t, err)

	css := res.CSSRules[0].CSS
	cls := ".cls_" + res.CSSRules[0].Hash
	require.Contains(t, css, cls+"{color:red}")
	require.Contains(t, css, cls+":hover{color:blue}")
	require.Contains(t, css, "@media (min-width:600px){"+cls+"{padding:4px}}")
	require.Contains(t, css, cls+" span{font-weight:700}")
}

func TestTransformNullAndUndefinedSkipped(t *testing.T) {
	t.Parallel()

	res, err := Transform("a.tsx", "const s = css({ color: 'red', width: null, height: undefined })", Options{})
	require.NoError(t, err)
	require.Equal(t, ".cls_"+res.CSSRules[0].Hash+"{color:red}", res.CSSRules[0].CSS)
}

func TestTransformOrderPreserved(t *testing.T) {
	t.Parallel()

	var parts []string
	for i := 0; i < 4; i++ {
		parts = append(parts, fmt.Sprintf("const c%d = css({ order: %d })", i, i))
	}
	res, err := Transform("a.tsx", strings.Join(parts, ";\n"), Options{})
	require.NoError(t, err)

	require.Len(t, res.CSSRules, 4)
	for i, rule := range res.CSSRules {
		require.Contains(t, rule.CSS, fmt.Sprintf("order:%d", i))
		require.Contains(t, res.Code, fmt.Sprintf(`const c%d = "cls_%s"`, i, rule.Hash))
	}
}

func TestTransformParseFailurePassesThrough(t *testing.T) {
	t.Parallel()

	src := "const ((( = css({ color: 'red' })"
	res, err := Transform("broken.tsx", src, Options{})
	require.NoError(t, err)
	require.Equal(t, src, res.Code)
	require.Empty(t, res.CSSRules)
	require.Empty(t, res.GlobalCSS)
	require.Empty(t, res.Keyframes)
	require.Empty(t, res.Map)
}

func TestTransformIdempotent(t *testing.T) {
	t.Parallel()

	src := "const b = css({ color: 'red' });\nconst f = keyframes`from{opacity:0}`;\nglobalCss`body { margin: 0 }`;"
	once, err := Transform("a.tsx", src, Options{})
	require.NoError(t, err)

	again, err := Transform("a.tsx", once.Code, Options{})
	require.NoError(t, err)
	require.Equal(t, once.Code, again.Code)
	require.Empty(t, again.CSSRules)
	require.Empty(t, again.GlobalCSS)
	require.Empty(t, again.Keyframes)
}

func TestTransformNoRecognizedCalls(t *testing.T) {
	t.Parallel()

	src := "export const add = (a: number, b: number) => a + b;\n"
	res, err := Transform("math.ts", src, Options{})
	require.NoError(t, err)
	require.Equal(t, src, res.Code)
	require.Empty(t, res.CSSRules)
}

func TestTransformSourceMaps(t *testing.T) {
	t.Parallel()

	src := "const keep = 1;\nconst b = css({ color: 'red' });\nconst tail = 2;\n"
	res, err := Transform("src/app.tsx", src, Options{SourceMaps: true})
	require.NoError(t, err)

	require.NotEmpty(t, res.Map)
	var m struct {
		Version        int      `json:"version"`
		Sources        []string `json:"sources"`
		SourcesContent []string `json:"sourcesContent"`
		Mappings       string   `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Map), &m))
	require.Equal(t, 3, m.Version)
	require.Equal(t, []string{"src/app.tsx"}, m.Sources)
	require.Equal(t, []string{src}, m.SourcesContent)
	require.NotEmpty(t, m.Mappings)

	require.NotEmpty(t, res.CSSRules[0].Map)

	// surrounding lines survive verbatim
	require.Contains(t, res.Code, "const keep = 1;")
	require.Contains(t, res.Code, "const tail = 2;")
}

func TestTransformThemeTemplateConcat(t *testing.T) {
	t.Parallel()

	src := "const s = css(({theme}) => ({ border: `1px solid ${theme.colors.primary}`, margin: theme.spacing.unit + 'px' }))"
	res, err := Transform("a.tsx", src, Options{ThemeJSON: testTheme})
	require.NoError(t, err)

	css := res.CSSRules[0].CSS
	require.Contains(t, css, "border:1px solid tomato")
	require.Contains(t, css, "margin:8px")
}

func TestTransformThemeMissingEntirely(t *testing.T) {
	t.Parallel()

	_, err := Transform("a.tsx", "const s = css(({theme}) => ({ color: theme.colors.primary }))", Options{})
	require.Error(t, err)
	require.True(t, taikoerrors.IsKind(err, taikoerrors.KindDynamicValue))
	require.Contains(t, err.Error(), "no theme")
}

func TestTransformInvalidThemeJSON(t *testing.T) {
	t.Parallel()

	_, err := Transform("a.tsx", "const s = css({ color: 'red' })", Options{ThemeJSON: "{nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid theme")
}

func TestHashCSS(t *testing.T) {
	t.Parallel()

	// FNV-1a 32-bit reference values
	require.Equal(t, "811c9dc5", hashCSS(""))
	require.Equal(t, "e40c292c", hashCSS("a"))
	require.Len(t, hashCSS(".cls{color:red}"), 8)
	require.Equal(t, hashCSS("x"), hashCSS("x"))
	require.NotEqual(t, hashCSS("x"), hashCSS("y"))
}
