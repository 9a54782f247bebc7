package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestParseNumberPlainAndSuffixed(t *testing.T) {
	in := &ReplyInterpreter{}

	cases := map[string]float64{
		"20":              20,
		"3.5":             3.5,
		"3.5m":            3.5,
		"about 20 metres": 20,
		"4 meters":        4,
	}
	for raw, want := range cases {
		got, err := in.Parse(context.Background(), raw, models.QuestionNumber, nil)
		require.NoError(t, err, raw)
		require.True(t, got.Valid, raw)
		assert.Equal(t, want, got.Value, raw)
	}
}

func TestParseNumberUnparseableIsInvalidNotError(t *testing.T) {
	in := &ReplyInterpreter{}

	got, err := in.Parse(context.Background(), "quite tall", models.QuestionNumber, nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestParseBooleanFalseIsValid(t *testing.T) {
	in := &ReplyInterpreter{}

	got, err := in.Parse(context.Background(), "no", models.QuestionBoolean, nil)
	require.NoError(t, err)
	require.True(t, got.Valid, "a negative answer is a parsed value, not a parse failure")
	assert.Equal(t, false, got.Value)

	got, err = in.Parse(context.Background(), "maybe", models.QuestionBoolean, nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestParseChoiceFuzzyMatch(t *testing.T) {
	in := &ReplyInterpreter{}
	choices := []string{"Timber", "Chain-link", "Aluminium"}

	got, err := in.Parse(context.Background(), "timber please", models.QuestionChoice, choices)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.Equal(t, "Timber", got.Value)
}

func TestParseChoiceModelFallback(t *testing.T) {
	gen := &stubGenerator{reply: "Chain-link"}
	in := &ReplyInterpreter{Generator: gen}
	choices := []string{"Timber", "Chain-link"}

	got, err := in.Parse(context.Background(), "the metal mesh one", models.QuestionChoice, choices)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.Equal(t, "Chain-link", got.Value)
	assert.Equal(t, 1, gen.calls)
}

func TestParseModelFailureDegradesToInvalid(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	in := &ReplyInterpreter{Generator: gen}

	got, err := in.Parse(context.Background(), "quite tall", models.QuestionNumber, nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestParseTextPassesThrough(t *testing.T) {
	in := &ReplyInterpreter{}

	got, err := in.Parse(context.Background(), "  12 Orchard Road  ", models.QuestionText, nil)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.Equal(t, "12 Orchard Road", got.Value)
}

func TestClassifierKeywordFallback(t *testing.T) {
	trees := []models.DecisionTree{
		{ID: "t1", ServiceName: "fencing", DisplayName: "Fencing Installation"},
		{ID: "t2", ServiceName: "decking", DisplayName: "Timber Decking"},
	}
	c := &TreeClassifier{}

	tree, err := c.Match(context.Background(), "I need a new fencing quote for my garden", trees)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "t1", tree.ID)

	tree, err = c.Match(context.Background(), "how is the weather", trees)
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestClassifierModelFailureFallsBackToKeywords(t *testing.T) {
	trees := []models.DecisionTree{
		{ID: "t1", ServiceName: "fencing", DisplayName: "Fencing Installation"},
	}
	c := &TreeClassifier{Generator: &stubGenerator{err: errors.New("unavailable")}}

	tree, err := c.Match(context.Background(), "fencing for my yard", trees)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "t1", tree.ID)
}
