package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}

	return ks
}

func texts(toks []Token) []string {
	ts := make([]string, len(toks))
	for i, t := range toks {
		ts[i] = t.Text
	}

	return ts
}

func TestLex(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantKinds []Kind
		wantTexts []string
		wantErr   bool
	}{
		{
			name:      "empty",
			src:       "",
			wantKinds: []Kind{EOF},
			wantTexts: []string{""},
		},
		{
			name:      "keyword and ident",
			src:       "#proc main",
			wantKinds: []Kind{Keyword, Ident, EOF},
			wantTexts: []string{"proc", "main", ""},
		},
		{
			name:      "number with suffix",
			src:       "42u64",
			wantKinds: []Kind{Number, EOF},
			wantTexts: []string{"42u64", ""},
		},
		{
			name:      "string with escapes",
			src:       `"hi\n\t\\\""`,
			wantKinds: []Kind{String, EOF},
			wantTexts: []string{"hi\n\t\\\"", ""},
		},
		{
			name:      "multi-char operators take priority over prefixes",
			src:       "-> => :: .* <- = . @",
			wantKinds: []Kind{Operator, Operator, Operator, Operator, Operator, Operator, Operator, Operator, EOF},
			wantTexts: []string{"->", "=>", "::", ".*", "<-", "=", ".", "@", ""},
		},
		{
			name:      "punctuators",
			src:       "(){},;:",
			wantKinds: []Kind{Punct, Punct, Punct, Punct, Punct, Punct, Punct, EOF},
			wantTexts: []string{"(", ")", "{", "}", ",", ";", ":", ""},
		},
		{
			name: "line comment discarded",
			src:  "#let x // this is ignored\n;",
			wantKinds: []Kind{Keyword, Ident, Punct, EOF},
			wantTexts: []string{"let", "x", ";", ""},
		},
		{
			name:      "any #-identifier lexes as a keyword, recognized or not",
			src:       "#frobnicate",
			wantKinds: []Kind{Keyword, EOF},
			wantTexts: []string{"frobnicate", ""},
		},
		{
			name:    "unrecognized character",
			src:     "$",
			wantErr: true,
		},
		{
			name:    "unterminated string",
			src:     `"abc`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(0, tt.src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantKinds, kinds(toks))
			require.Equal(t, tt.wantTexts, texts(toks))
		})
	}
}

func TestLexCrlfTreatedAsLf(t *testing.T) {
	toks, err := Lex(0, "#let x\r\n;")
	require.NoError(t, err)
	require.Equal(t, []Kind{Keyword, Ident, Punct, EOF}, kinds(toks))
}

func TestLexTracksLineAndColumn(t *testing.T) {
	toks, err := Lex(0, "#let\nx")
	require.NoError(t, err)
	require.Equal(t, 1, toks[0].Pos.BeginPos.Line)
	require.Equal(t, 1, toks[0].Pos.BeginPos.Col)
	require.Equal(t, 2, toks[1].Pos.BeginPos.Line)
	require.Equal(t, 1, toks[1].Pos.BeginPos.Col)
}
