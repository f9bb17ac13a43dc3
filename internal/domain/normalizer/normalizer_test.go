package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DefaultAliases(t *testing.T) {
	n := MustNew(DefaultAliases())

	tests := []struct {
		raw  string
		want string
	}{
		{"BIG RICH", "Rich"},
		{"BigRich", "Rich"},
		{"BIGRICH", "Rich"},
		{"big-rich", "Rich"},
		{"Rich", "Rich"},
		{"RICH-LITTLE", "Little Rich"},
		{"Little Rich", "Little Rich"},
		{"STEVE MARTIN", "Steve"},
		{"steve", "Steve"},
		{"TONY", "Tony"},
		{"tony", "Tony"},
		{"Unknown Driver", "Unknown Driver"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := MustNew(DefaultAliases())

	inputs := []string{"BIG RICH", "BigRich", "RICH-LITTLE", "Little Rich", "STEVEMARTIN", "Tony", "nobody", " spaced out ", ""}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestNormalize_UnknownPassesThroughUnchanged(t *testing.T) {
	n := MustNew(DefaultAliases())

	assert.Equal(t, "  Bob  ", n.Normalize("  Bob  "))
	assert.False(t, n.Known("Bob"))
	assert.True(t, n.Known("big rich"))
}

func TestNew_SeparateTables(t *testing.T) {
	a := MustNew(map[string]string{"BIGRICH": "Rich"})
	b := MustNew(map[string]string{"BIGRICH": "Richard"})

	assert.Equal(t, "Rich", a.Normalize("Big Rich"))
	assert.Equal(t, "Richard", b.Normalize("Big Rich"))
}

func TestNew_RejectsConflicts(t *testing.T) {
	t.Run("same key, two names", func(t *testing.T) {
		_, err := New(map[string]string{"BIG RICH": "Rich", "BIGRICH": "Richard"})
		assert.Error(t, err)
	})

	t.Run("canonical name aliased elsewhere", func(t *testing.T) {
		_, err := New(map[string]string{"BIGRICH": "Rich", "RICH": "Big Rich"})
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := New(map[string]string{"TONY": " "})
		assert.Error(t, err)
	})
}

func TestNames(t *testing.T) {
	n, err := New(DefaultAliases())
	require.NoError(t, err)

	assert.Equal(t, []string{"Little Rich", "Rich", "Steve", "Tony"}, n.Names())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "RICHLITTLE", Key("Rich - Little"))
	assert.Equal(t, "BIGRICH", Key("big\trich"))
}
