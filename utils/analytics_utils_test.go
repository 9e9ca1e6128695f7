package utils

import (
	"testing"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnalyticsEmptyHistory(t *testing.T) {
	payload := BuildAnalytics(nil)

	assert.Equal(t, 0, payload.TotalSessions)
	assert.Equal(t, 0, payload.TotalPracticeMinutes)
	assert.Equal(t, 0.0, payload.CompletionRate)
	assert.Equal(t, 0.0, payload.Summary.Overall)
	assert.Equal(t, StatusNeedsImprovement, payload.Summary.OverallStatus)
	assert.Empty(t, payload.Trends)
	assert.Empty(t, payload.Activity)

	// empty history gets the single generic tip, not the threshold tips
	require.Len(t, payload.Tips, 1)
	assert.Contains(t, payload.Tips[0], "first practice session")
}

func TestBuildAnalyticsTechnicalFallback(t *testing.T) {
	now := time.Now()
	ended := now.Add(10 * time.Minute)
	sessions := []models.Session{
		{
			Module:          "technical",
			StartedAt:       now,
			EndedAt:         &ended,
			DurationMinutes: 10,
			AggregateScore:  fptr(0.8),
			Transcripts: []models.Transcript{
				{TurnNumber: 1, Grammar: fptr(7.0), CreatedAt: now},
			},
		},
	}

	payload := BuildAnalytics(sessions)

	// no technical-accuracy sub-scores: technical falls back to the
	// session aggregate (0.8 -> 80)
	assert.Equal(t, 80.0, payload.Summary.Technical)
	assert.Equal(t, 1, payload.TotalSessions)
	assert.Equal(t, 10, payload.TotalPracticeMinutes)
	assert.Equal(t, 100.0, payload.CompletionRate)
}

func TestBuildAnalyticsModuleDistribution(t *testing.T) {
	now := time.Now()
	sessions := []models.Session{
		{Module: "hr", StartedAt: now},
		{Module: "hr", StartedAt: now},
		{Module: "gd", StartedAt: now},
	}

	payload := BuildAnalytics(sessions)

	require.Len(t, payload.ModuleDistribution, 2)
	assert.Equal(t, DistributionItem{Label: "HR Interview", Count: 2}, payload.ModuleDistribution[0])
	assert.Equal(t, DistributionItem{Label: "Group Discussion", Count: 1}, payload.ModuleDistribution[1])
	assert.Equal(t, payload.ModuleDistribution[:2], payload.MostPracticed)
}

func TestTurnComposite(t *testing.T) {
	// no sub-scores at all
	assert.Nil(t, turnComposite(models.Transcript{}))

	// mixed scales: clarity 8/10 -> 80, grammar 0.6 -> 60, confidence missing
	got := turnComposite(models.Transcript{Clarity: fptr(8), Grammar: fptr(0.6)})
	require.NotNil(t, got)
	assert.InDelta(t, 70.0, *got, 0.0001)
}

func TestVocabularyScore(t *testing.T) {
	assert.Equal(t, 0.0, vocabularyScore(nil))

	// fully unique vocabulary clamps at 100
	assert.Equal(t, 100.0, vocabularyScore([]string{"alpha", "beta", "gamma", "delta"}))

	// 3 unique of 10 -> 0.3 * 160 = 48
	words := []string{"a", "a", "a", "a", "b", "b", "b", "b", "c", "c"}
	assert.InDelta(t, 48.0, vocabularyScore(words), 0.0001)
}

func confidenceTurns(values ...float64) []models.Transcript {
	turns := make([]models.Transcript, len(values))
	for i, v := range values {
		turns[i] = models.Transcript{TurnNumber: i + 1, Confidence: fptr(v)}
	}
	return turns
}

func TestConfidenceDropRate(t *testing.T) {
	// fewer than six turns never qualifies
	short := models.Session{Transcripts: confidenceTurns(90, 90, 50, 50, 50)}
	assert.Equal(t, 0.0, confidenceDropRate([]models.Session{short}))

	// 20-point drop between first and last third is flagged
	dropped := models.Session{Transcripts: confidenceTurns(80, 80, 70, 70, 60, 60)}
	assert.Equal(t, 100.0, confidenceDropRate([]models.Session{dropped}))

	// a drop of exactly 8 is not flagged
	boundary := models.Session{Transcripts: confidenceTurns(80, 80, 76, 76, 72, 72)}
	assert.Equal(t, 0.0, confidenceDropRate([]models.Session{boundary}))

	// one of two qualifying sessions flagged -> 50%
	assert.Equal(t, 50.0, confidenceDropRate([]models.Session{dropped, boundary}))
}

func TestCommonGrammarIssues(t *testing.T) {
	feedbacks := []string{
		"Work on your tenses",
		"Tense usage needs work, and general grammar too",
		"Watch the articles here",
		"Check subject-verb agreement",
	}

	issues := commonGrammarIssues(feedbacks)

	require.NotEmpty(t, issues)
	assert.Equal(t, GrammarIssue{Issue: "Tense usage", Count: 2}, issues[0])
	assert.LessOrEqual(t, len(issues), 4)
}

func TestFocusAreasPicksTwoLowest(t *testing.T) {
	summary := AnalyticsSummary{
		Communication: 50,
		Confidence:    90,
		Grammar:       80,
		Vocabulary:    40,
		Technical:     70,
	}
	assert.Equal(t, []string{"Vocabulary", "Communication"}, focusAreas(summary))
}

func TestImprovementTips(t *testing.T) {
	// all dimensions healthy -> single encouragement tip
	healthy := AnalyticsSummary{
		Communication: 80, Confidence: 80, Grammar: 80, Vocabulary: 80, Technical: 80,
	}
	tips := improvementTips(healthy)
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0], "Great progress")

	// each weak dimension contributes its own tip
	weak := AnalyticsSummary{
		Communication: 40, Confidence: 40, Grammar: 40, Vocabulary: 40, Technical: 40,
	}
	assert.Len(t, improvementTips(weak), 5)
}

func TestOverallStatusBoundaries(t *testing.T) {
	assert.Equal(t, StatusExcellent, overallStatus(80))
	assert.Equal(t, StatusGood, overallStatus(79.9))
	assert.Equal(t, StatusGood, overallStatus(60))
	assert.Equal(t, StatusNeedsImprovement, overallStatus(59.9))
}
