package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

func TestTranslateCmd_IndexedQuery(t *testing.T) {
	// Given: the built-in catalog
	env := newCLIEnv(t)

	// When: translating a query naming the title index
	out, _, err := env.run("translate", "ti", "hello", "world")

	// Then: the backend query filters on title
	require.NoError(t, err)
	assert.Equal(t, "select * from (((title = 'hello world '))) foo order by 1 desc\n", out)
}

func TestTranslateCmd_DefaultIndex(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("translate", "hello world")

	require.NoError(t, err)
	assert.Equal(t, "select * from (((any_word = 'hello world '))) foo order by 1 desc\n", out)
}

func TestTranslateCmd_Locale(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"italian abbreviation", []string{"--locale", "it", "tit gatti"}, "(title = 'gatti ')"},
		{"english abbreviation not in italian", []string{"--locale", "it", "ti gatti"}, "(any_word = 'ti gatti ')"},
		{"configured locale", []string{"tit gatti"}, "(any_word = 'tit gatti ')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)

			out, _, err := env.run(append([]string{"translate"}, tt.args...)...)

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestTranslateCmd_ProjectConfigLocale(t *testing.T) {
	// Given: a project configured for Italian
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "query:\n  locale: it\n")

	// When: translating an Italian abbreviation
	out, _, err := env.run("translate", "aut rossi")

	// Then: it resolves without --locale
	require.NoError(t, err)
	assert.Contains(t, out, "(author = 'rossi ')")
}

func TestTranslateCmd_Tree(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("translate", "--tree", "ti cats and au smith")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "AND", lines[0])
	assert.Equal(t, `│ TITLE (title) = "cats "`, lines[1])
	assert.Equal(t, `│ AUTHOR (author) = "smith "`, lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "select * from ((((title = 'cats ') AND (author = 'smith ')))) foo order by 1 desc", lines[4])
}

func TestTranslateCmd_JSON(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("translate", "--format", "json", `ti="big cats"`)

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, `ti="big cats"`, got["ccl"])
	assert.Equal(t, "select * from (((title = 'big cats'))) foo order by 1 desc", got["query"])
	assert.NotContains(t, got, "error")
}

func TestTranslateCmd_JSONError(t *testing.T) {
	// Given: a query with an unbalanced parenthesis
	env := newCLIEnv(t)

	// When: translating with JSON output
	out, _, err := env.run("translate", "--format", "json", "(ti cats")

	// Then: the error is reported as coded JSON and the command fails
	require.Error(t, err)
	var got struct {
		CCL   string `json:"ccl"`
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "(ti cats", got.CCL)
	assert.Equal(t, cclerrors.ErrCodeParse, got.Error.Code)
	assert.Equal(t, "Mismatched parentheses", got.Error.Message)
}

func TestTranslateCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"lexical", []string{"translate", `ti "open`}, cclerrors.ErrLexical},
		{"parse", []string{"translate", "cats near"}, cclerrors.ErrParse},
		{"bad locale", []string{"translate", "--locale", "not a locale", "cats"}, cclerrors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)

			_, _, err := env.run(tt.args...)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestTranslateCmd_MissingDefaultIndex(t *testing.T) {
	// Given: a default index that is not in the catalog
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "query:\n  default_index: ZZ\n")

	// When: translating anything
	_, _, err := env.run("translate", "ti cats")

	// Then: start-up fails with a fatal configuration error
	require.Error(t, err)
	assert.True(t, errors.Is(err, cclerrors.ErrDefaultIndex))
	assert.True(t, cclerrors.IsFatal(err))
}

func TestTranslateCmd_CustomDialect(t *testing.T) {
	// Given: a dialect with Italian boolean keywords
	env := newCLIEnv(t)
	env.writeProjectConfig(t, "query:\n  dialect:\n    booleans: {e: AND, o: OR, non: NOT}\n")

	// When: combining terms with "e"
	out, _, err := env.run("translate", "ti gatti e au rossi")

	// Then: "e" is the AND operator
	require.NoError(t, err)
	assert.Contains(t, out, "(title = 'gatti ') AND (author = 'rossi ')")
}

func TestTranslateCmd_InvalidFormat(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("translate", "--format", "xml", "cats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestTranslateCmd_RequiresQuery(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("translate")

	assert.Error(t, err)
}
