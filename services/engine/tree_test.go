package engine

import (
	"testing"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(v interface{}) models.Answer {
	return models.Answer{Value: v}
}

func linearTree() *models.DecisionTree {
	return &models.DecisionTree{
		ServiceName: "parquet_sanding_varnishing",
		DisplayName: "Parquet Sanding & Varnishing",
		Questions: []models.Question{
			{ID: "item", Prompt: "What service do you need?", Type: models.QuestionText, Required: true},
			{ID: "total_area", Prompt: "What is the total area in sqm?", Type: models.QuestionNumber, Required: true},
			{ID: "location", Prompt: "Where is the property?", Type: models.QuestionText, Required: true},
		},
	}
}

func branchingTree() *models.DecisionTree {
	return &models.DecisionTree{
		ServiceName: "court_markings",
		DisplayName: "Court Markings",
		Questions: []models.Question{
			{
				ID:     "court_type",
				Prompt: "What type of court?",
				Type:   models.QuestionChoice,
				Choices: []string{
					"Basketball", "Tennis", "Pickleball",
				},
				Required: true,
				Next: &models.Transition{Targets: map[string]string{
					"Basketball": "basketball_size",
					"Tennis":     "tennis_courts",
					"Pickleball": "pickleball_courts",
				}},
			},
			{
				ID: "basketball_size", Prompt: "Full or half court?", Type: models.QuestionChoice,
				Choices: []string{"Full", "Half"}, Required: true,
				Next: &models.Transition{Targets: map[string]string{}, Default: "location"},
			},
			{ID: "tennis_courts", Prompt: "How many tennis courts?", Type: models.QuestionNumber, Required: true,
				Next: &models.Transition{Targets: map[string]string{}, Default: "location"}},
			{ID: "pickleball_courts", Prompt: "How many pickleball courts?", Type: models.QuestionNumber, Required: true,
				Next: &models.Transition{Targets: map[string]string{}, Default: "location"}},
			{ID: "location", Prompt: "Where is the court?", Type: models.QuestionText, Required: true},
		},
	}
}

func TestNextQuestionLinearOrder(t *testing.T) {
	tree := linearTree()
	answers := models.CollectedAnswers{}

	q, err := NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "item", q.ID)

	answers = answers.With("item", answer("parquet sanding"))
	q, err = NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "total_area", q.ID)

	answers = answers.With("total_area", answer(42.0))
	q, err = NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "location", q.ID)

	answers = answers.With("location", answer("Tampines"))
	q, err = NextQuestion(tree, answers)
	require.NoError(t, err)
	assert.Nil(t, q)

	complete, err := IsComplete(tree, answers)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestIsCompleteLinearRequiresEveryAnswer(t *testing.T) {
	tree := linearTree()
	answers := models.CollectedAnswers{}.
		With("item", answer("parquet sanding")).
		With("location", answer("Tampines"))

	complete, err := IsComplete(tree, answers)
	require.NoError(t, err)
	assert.False(t, complete, "middle question unanswered")
}

func TestNextQuestionBranchSkipsOtherPaths(t *testing.T) {
	tree := branchingTree()
	answers := models.CollectedAnswers{}.With("court_type", answer("Basketball"))

	q, err := NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "basketball_size", q.ID, "answering Basketball must route to the basketball branch")

	// The tennis and pickleball branches never appear on this path.
	answers = answers.With("basketball_size", answer("Full"))
	q, err = NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "location", q.ID)

	answers = answers.With("location", answer("Jurong East"))
	complete, err := IsComplete(tree, answers)
	require.NoError(t, err)
	assert.True(t, complete, "skipped branches must not block completion")
}

func TestCompletenessRederivedAfterAnswerChange(t *testing.T) {
	tree := branchingTree()
	answers := models.CollectedAnswers{}.
		With("court_type", answer("Basketball")).
		With("basketball_size", answer("Full")).
		With("location", answer("Jurong East"))

	complete, err := IsComplete(tree, answers)
	require.NoError(t, err)
	require.True(t, complete)

	// Switching the branch answer reopens the path: the tennis branch is now
	// reachable and unanswered.
	answers = answers.With("court_type", answer("Tennis"))
	complete, err = IsComplete(tree, answers)
	require.NoError(t, err)
	assert.False(t, complete)

	q, err := NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "tennis_courts", q.ID)
}

func TestUnknownTransitionTargetIsConfigurationError(t *testing.T) {
	tree := branchingTree()
	tree.Questions[0].Next.Targets["Basketball"] = "no_such_question"

	_, err := NextQuestion(tree, models.CollectedAnswers{})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = IsComplete(tree, models.CollectedAnswers{})
	assert.Error(t, err)
}

func TestUnmappedAnswerWithoutDefaultEndsPath(t *testing.T) {
	tree := branchingTree()
	// "Futsal" is not mapped and court_type has no default, so the path ends
	// at the answered node and the tree is complete.
	answers := models.CollectedAnswers{}.With("court_type", answer("Futsal"))

	q, err := NextQuestion(tree, answers)
	require.NoError(t, err)
	assert.Nil(t, q)

	complete, err := IsComplete(tree, answers)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestPrefilledAnswerNotPresentUntilConfirmed(t *testing.T) {
	tree := linearTree()
	answers := models.CollectedAnswers{}.
		With("item", models.Answer{Value: "parquet sanding", Prefilled: true, Source: "conversation"})

	q, err := NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "item", q.ID, "unconfirmed prefill does not count as answered")

	answers = answers.With("item", models.Answer{Value: "parquet sanding", Prefilled: true, Confirmed: true, Source: "conversation"})
	q, err = NextQuestion(tree, answers)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "total_area", q.ID)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "false", Stringify(false))
	assert.Equal(t, "3.5", Stringify(3.5))
	assert.Equal(t, "4", Stringify(4.0))
	assert.Equal(t, "7", Stringify(7))
	assert.Equal(t, "Basketball", Stringify("Basketball"))
}
