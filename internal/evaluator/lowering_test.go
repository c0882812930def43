package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

func lowerSource(t *testing.T, src, themeJSON, selector string) (string, error) {
	t.Helper()
	e, f := newTestEvaluator(t, src, themeJSON)
	obj := findKind(f.Root(), "object")
	require.NotNil(t, obj)
	return e.LowerObject(obj, selector)
}

func TestLowerObjectDeclarations(t *testing.T) {
	t.Parallel()

	css, err := lowerSource(t, `const s = { color: 'red', paddingTop: 8, opacity: 0.5, margin: 0 }`, "", ".x")
	require.NoError(t, err)
	require.Equal(t, ".x{color:red;padding-top:8px;opacity:0.5;margin:0}\n", css)
}

func TestLowerObjectUnitlessSet(t *testing.T) {
	t.Parallel()

	css, err := lowerSource(t, `const s = { zIndex: 10, flexGrow: 2, fontWeight: 600, lineHeight: 1.4, width: 10 }`, "", ".x")
	require.NoError(t, err)
	require.Equal(t, ".x{z-index:10;flex-grow:2;font-weight:600;line-height:1.4;width:10px}\n", css)
}

func TestLowerObjectNesting(t *testing.T) {
	t.Parallel()

	src := `const s = {
		color: 'red',
		'&:hover': { color: 'blue' },
		'& .child, & .other': { margin: 4 },
		'@media (min-width: 600px)': { '&:focus': { outline: 'none' } },
		article: { padding: 2 },
	}`
	css, err := lowerSource(t, src, "", ".x")
	require.NoError(t, err)
	require.Contains(t, css, ".x{color:red}\n")
	require.Contains(t, css, ".x:hover{color:blue}\n")
	require.Contains(t, css, ".x .child, .x .other{margin:4px}\n")
	require.Contains(t, css, "@media (min-width: 600px){.x:focus{outline:none}}\n")
	require.Contains(t, css, ".x article{padding:2px}\n")
}

func TestLowerObjectNullSkipped(t *testing.T) {
	t.Parallel()

	css, err := lowerSource(t, `const s = { color: 'red', width: null, height: undefined }`, "", ".x")
	require.NoError(t, err)
	require.Equal(t, ".x{color:red}\n", css)
}

func TestLowerObjectContainerSpread(t *testing.T) {
	t.Parallel()

	css, err := lowerSource(t, `const s = { ...container('sidebar', 'inline-size'), width: '250px' }`, "", ".x")
	require.NoError(t, err)
	require.Equal(t, ".x{container-type:inline-size;container-name:sidebar;width:250px}\n", css)
}

func TestLowerObjectSpreadErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		kind taikoerrors.Kind
	}{
		{"identifier spread", `const s = { ...base }`, taikoerrors.KindBadSpread},
		{"object spread", `const s = { ...{ color: 'red' } }`, taikoerrors.KindBadSpread},
		{"foreign call spread", `const s = { ...mixin() }`, taikoerrors.KindUnsupportedExpression},
		{"container bad type", `const s = { ...container('huge') }`, taikoerrors.KindBadContainerCall},
		{"container bad arity", `const s = { ...container() }`, taikoerrors.KindBadContainerCall},
		{"container dynamic name", `const s = { ...container(name, 'size') }`, taikoerrors.KindBadContainerCall},
		{"computed key", "const s = { [key]: 'red' }", taikoerrors.KindUnsupportedExpression},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := lowerSource(t, tc.src, "", ".x")
			require.Error(t, err)
			require.True(t, taikoerrors.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestLowerObjectDynamicValueNamesProperty(t *testing.T) {
	t.Parallel()

	_, err := lowerSource(t, `const s = { color: someVar }`, "", ".x")
	require.Error(t, err)
	require.Contains(t, err.Error(), `property "color"`)
	require.Contains(t, err.Error(), "someVar")
}

func TestCamelToKebab(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"color":            "color",
		"paddingTop":       "padding-top",
		"WebkitMask":       "-webkit-mask",
		"gridTemplateRows": "grid-template-rows",
	}
	for in, want := range cases {
		require.Equal(t, want, camelToKebab(in))
	}
}

func TestComposeSelector(t *testing.T) {
	t.Parallel()

	require.Equal(t, ".x:hover", composeSelector(".x", "&:hover"))
	require.Equal(t, ".x .a, .x .b", composeSelector(".x", "& .a, & .b"))
	require.Equal(t, ".x span", composeSelector(".x", "span"))
	require.Equal(t, "span", composeSelector("", "span"))
}

func TestValueCSSText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "16px", numberValue(16).cssText("width"))
	require.Equal(t, "0", numberValue(0).cssText("width"))
	require.Equal(t, "1.5px", numberValue(1.5).cssText("width"))
	require.Equal(t, "0.5", numberValue(0.5).cssText("opacity"))
	require.Equal(t, "0", numberValue(0).cssText("opacity"))
	require.Equal(t, "red", stringValue("red").cssText("color"))
}
