package jsparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLanguageForFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want Language
	}{
		{"src/app.ts", TypeScript},
		{"src/app.mts", TypeScript},
		{"src/App.tsx", TSX},
		{"src/App.jsx", TSX},
		{"src/util.js", JavaScript},
		{"src/util.cjs", JavaScript},
		{"weird.vue", TSX},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, LanguageForFilename(tc.name), tc.name)
	}
}

func TestParseValidTSX(t *testing.T) {
	t.Parallel()

	src := []byte("const a: number = 1;\nexport const B = () => <div className={x}>hi</div>;\n")
	f, err := Parse("app.tsx", src)
	require.NoError(t, err)
	defer f.Close()

	require.False(t, f.HasSyntaxError())
	require.Equal(t, "program", f.Root().Kind())
	require.Equal(t, string(src), f.Text(f.Root()))
}

func TestParseBrokenSourceFlagsError(t *testing.T) {
	t.Parallel()

	f, err := Parse("bad.ts", []byte("const = = {"))
	require.NoError(t, err)
	defer f.Close()
	require.True(t, f.HasSyntaxError())
}

func TestPositionLookup(t *testing.T) {
	t.Parallel()

	f, err := Parse("pos.ts", []byte("const a = 1;\nconst b = 2;\n\nconst c = 3;"))
	require.NoError(t, err)
	defer f.Close()

	line, col := f.Position(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	// "const b" starts at offset 13
	line, col = f.Position(13)
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)

	line, col = f.Position(19)
	require.Equal(t, 2, line)
	require.Equal(t, 7, col)

	// "const c" after the blank line
	line, col = f.Position(27)
	require.Equal(t, 4, line)
	require.Equal(t, 1, col)
}

func TestParseToleratesTypeScriptSurface(t *testing.T) {
	t.Parallel()

	src := []byte(`
@decorated
class Widget<T extends object> {
  prop: T | undefined;
}
const cfg = { mode: "a" } satisfies Record<string, string>;
`)
	f, err := Parse("widget.ts", src)
	require.NoError(t, err)
	defer f.Close()
	require.False(t, f.HasSyntaxError())
}
