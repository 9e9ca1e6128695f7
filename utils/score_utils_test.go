package utils

import (
	"math"
	"testing"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestNormalizeScore(t *testing.T) {
	cases := []struct {
		name string
		in   *float64
		want *float64
	}{
		{"nil passes through", nil, nil},
		{"NaN treated as missing", fptr(math.NaN()), nil},
		{"decimal scale", fptr(0.85), fptr(85)},
		{"exactly one is decimal scale", fptr(1), fptr(100)},
		{"ten-point scale", fptr(8.5), fptr(85)},
		{"ten is ten-point scale", fptr(10), fptr(100)},
		{"percent scale unchanged", fptr(42), fptr(42)},
		{"clamped above", fptr(150), fptr(100)},
		{"negative clamped to zero", fptr(-3), fptr(0)},
		{"zero stays zero", fptr(0), fptr(0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeScore(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.want, *got, 0.0001)
		})
	}
}

func TestNormalizeScoreDoesNotMutateInput(t *testing.T) {
	raw := fptr(0.85)
	NormalizeScore(raw)
	assert.Equal(t, 0.85, *raw)
}

func TestScoreSessionEmptyAnswers(t *testing.T) {
	result := ScoreSession(nil)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, StatusIncomplete, result.Status)

	// whitespace-only answers count as no answers
	result = ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "   "},
		{TurnNumber: 2, UserAnswer: "\n\t"},
	})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, StatusIncomplete, result.Status)
}

func TestScoreSessionShortNonTechnicalAnswers(t *testing.T) {
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "good morning"},
		{TurnNumber: 2, UserAnswer: "thank you"},
		{TurnNumber: 3, UserAnswer: "nice day"},
	})

	// tech 0 + comm 2 + grammar 5 + confidence 5 = 12 of 40
	assert.Equal(t, 0, result.SubScores.Technical)
	assert.Equal(t, 2, result.SubScores.Communication)
	assert.Equal(t, 30, result.Score)
	assert.Equal(t, StatusNeedsPractice, result.Status)
}

func TestScoreSessionTechnicalAnswers(t *testing.T) {
	answer := "i built the backend in golang with postgres and redis then deployed it using docker and kubernetes on aws for the production environment"
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: answer},
	})

	// six keyword matches cap the technical sub-score at 9, long answers
	// score communication 8: (9+8+5+5)/40 -> 68
	assert.Equal(t, 9, result.SubScores.Technical)
	assert.Equal(t, 8, result.SubScores.Communication)
	assert.Equal(t, 5, result.SubScores.Grammar)
	assert.Equal(t, 5, result.SubScores.Confidence)
	assert.Equal(t, 68, result.Score)
	assert.Equal(t, StatusGood, result.Status)
}

func TestScoreSessionModerateKeywordTier(t *testing.T) {
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "i mostly write python and a bit of sql at work"},
	})
	// two keyword matches land in the middle tier
	assert.Equal(t, 4, result.SubScores.Technical)
}

func TestScoreSessionProductTermFloor(t *testing.T) {
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "we integrated the fluenzy api into our workflow today"},
	})

	// no keyword matches, but naming the product floors technical at 5
	assert.Equal(t, 5, result.SubScores.Technical)
}

func TestScoreSessionFillerPenalty(t *testing.T) {
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "um i was like basically just okay with it um yeah"},
	})

	// 5 of 11 words are fillers, well past the 10% threshold
	assert.Equal(t, 2, result.SubScores.Confidence)
}

func TestScoreSessionFillerPenaltyStripsPunctuation(t *testing.T) {
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "Um, okay... basically, yes"},
	})
	assert.Equal(t, 2, result.SubScores.Confidence)
}

func TestSessionStatusBoundaries(t *testing.T) {
	assert.Equal(t, StatusExcellent, sessionStatus(71))
	assert.Equal(t, StatusGood, sessionStatus(70))
	assert.Equal(t, StatusGood, sessionStatus(31))
	assert.Equal(t, StatusNeedsPractice, sessionStatus(30))
	assert.Equal(t, StatusNeedsPractice, sessionStatus(0))
}

func TestContainsAnyWord(t *testing.T) {
	assert.True(t, containsAnyWord([]string{"hai,"}, HinglishMarkers))
	assert.True(t, containsAnyWord([]string{"matlab"}, HinglishMarkers))
	// markers must match whole words, not substrings
	assert.False(t, containsAnyWord([]string{"haircut"}, HinglishMarkers))
	assert.False(t, containsAnyWord([]string{"australia"}, HinglishMarkers))
}

func TestScoreSessionKeywordsMatchWholeWordsOnly(t *testing.T) {
	result := ScoreSession([]models.Transcript{
		{TurnNumber: 1, UserAnswer: "the legitimate restaurant we visited had rapid service and the arrest made local headlines"},
	})

	// "legitimate", "restaurant", "rapid" and "arrest" must not count as
	// "git", "rest" and "api"
	assert.Equal(t, 0, result.SubScores.Technical)
}

func TestContainsTerm(t *testing.T) {
	corpus := "we use machine learning and ci/cd daily and i write c++ at work"

	assert.True(t, containsTerm(corpus, "machine learning"))
	assert.True(t, containsTerm(corpus, "ci/cd"))
	assert.True(t, containsTerm(corpus, "c++"))
	assert.True(t, containsTerm("python", "python"))
	assert.True(t, containsTerm("the fluenzy api helped", "api"))

	assert.False(t, containsTerm("the legitimate option", "git"))
	assert.False(t, containsTerm("a rapid response", "api"))
	assert.False(t, containsTerm("the restaurant downtown", "rest"))
	assert.False(t, containsTerm("reacting quickly", "react"))
	assert.False(t, containsTerm("", "python"))
}
