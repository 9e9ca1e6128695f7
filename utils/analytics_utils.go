package utils

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
)

// istZone is the timezone used for day-keying trends and activity
var istZone = time.FixedZone("IST", 5*3600+30*60)

const dayKeyFormat = "2006-01-02"

// vocabularyScale maps typical lexical-diversity ratios (~0.3-0.6) into a
// useful 0-100 range
const vocabularyScale = 160.0

// AnalyticsSummary holds the five summary dimensions plus the overall score
type AnalyticsSummary struct {
	Communication float64 `json:"communication"`
	Confidence    float64 `json:"confidence"`
	Grammar       float64 `json:"grammar"`
	Vocabulary    float64 `json:"vocabulary"`
	Technical     float64 `json:"technical"`
	Overall       float64 `json:"overall"`
	OverallStatus string  `json:"overall_status"`
}

// TrendPoint is one calendar day's average dimension scores
type TrendPoint struct {
	Date          string  `json:"date"`
	Communication float64 `json:"communication"`
	Confidence    float64 `json:"confidence"`
	Grammar       float64 `json:"grammar"`
	Technical     float64 `json:"technical"`
}

// ActivityPoint is one calendar day's session count
type ActivityPoint struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
}

// DistributionItem is one label/count pair in a distribution
type DistributionItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GrammarIssue is one detected feedback topic with its frequency
type GrammarIssue struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

// AnalyticsPayload is the full performance dashboard payload for one user
type AnalyticsPayload struct {
	Summary              AnalyticsSummary   `json:"summary"`
	TotalSessions        int                `json:"total_sessions"`
	TotalPracticeMinutes int                `json:"total_practice_minutes"`
	CompletionRate       float64            `json:"completion_rate"`
	Trends               []TrendPoint       `json:"trends"`
	Activity             []ActivityPoint    `json:"activity"`
	CompanyDistribution  []DistributionItem `json:"company_distribution"`
	RoleDistribution     []DistributionItem `json:"role_distribution"`
	ModuleDistribution   []DistributionItem `json:"module_distribution"`
	MostPracticed        []DistributionItem `json:"most_practiced"`
	LeastPracticed       []DistributionItem `json:"least_practiced"`
	ConfidenceDropRate   float64            `json:"confidence_drop_rate"`
	GrammarIssues        []GrammarIssue     `json:"grammar_issues"`
	FocusAreas           []string           `json:"focus_areas"`
	Tips                 []string           `json:"tips"`
}

// grammarIssuePatterns are the fixed feedback topics scanned for in AI
// feedback text. Top 4 by frequency are reported.
var grammarIssuePatterns = []struct {
	Label   string
	Pattern *regexp.Regexp
}{
	{"Subject-verb agreement", regexp.MustCompile(`(?i)subject[\s-]*verb`)},
	{"Tense usage", regexp.MustCompile(`(?i)\btenses?\b`)},
	{"Articles", regexp.MustCompile(`(?i)\barticles?\b`)},
	{"Prepositions", regexp.MustCompile(`(?i)\bprepositions?\b`)},
	{"Punctuation", regexp.MustCompile(`(?i)\bpunctuation\b`)},
	{"Spelling", regexp.MustCompile(`(?i)\bspellings?\b`)},
	{"Grammar", regexp.MustCompile(`(?i)\bgrammar\b`)},
}

// BuildAnalytics produces the full analytics payload from a user's session
// history. Sessions must have their transcripts preloaded. Pure read/compute;
// empty history yields zeroed scores and a generic tip, never an error.
func BuildAnalytics(sessions []models.Session) AnalyticsPayload {
	payload := AnalyticsPayload{
		Trends:              []TrendPoint{},
		Activity:            []ActivityPoint{},
		CompanyDistribution: []DistributionItem{},
		RoleDistribution:    []DistributionItem{},
		ModuleDistribution:  []DistributionItem{},
		MostPracticed:       []DistributionItem{},
		LeastPracticed:      []DistributionItem{},
		GrammarIssues:       []GrammarIssue{},
		FocusAreas:          []string{},
		Tips:                []string{},
	}

	var (
		commComposites []float64
		confValues     []float64
		grammarValues  []float64
		techValues     []float64
		sessionScores  []float64
		corpusWords    []string
		feedbacks      []string
	)

	for _, session := range sessions {
		payload.TotalSessions++
		payload.TotalPracticeMinutes += session.DurationMinutes
		if score := NormalizeScore(session.AggregateScore); score != nil {
			sessionScores = append(sessionScores, *score)
		}
		for _, turn := range session.Transcripts {
			if composite := turnComposite(turn); composite != nil {
				commComposites = append(commComposites, *composite)
			}
			if v := NormalizeScore(turn.Confidence); v != nil {
				confValues = append(confValues, *v)
			}
			if v := NormalizeScore(turn.Grammar); v != nil {
				grammarValues = append(grammarValues, *v)
			}
			if v := NormalizeScore(turn.TechnicalAccuracy); v != nil {
				techValues = append(techValues, *v)
			}
			if answer := strings.TrimSpace(turn.UserAnswer); answer != "" {
				corpusWords = append(corpusWords, strings.Fields(strings.ToLower(answer))...)
			}
			if turn.Feedback != "" {
				feedbacks = append(feedbacks, turn.Feedback)
			}
		}
	}

	// Summary dimensions
	communication := renormalize(average(commComposites))
	confidence := renormalize(average(confValues))
	grammar := renormalize(average(grammarValues))
	vocabulary := vocabularyScore(corpusWords)
	technical := renormalize(average(techValues))
	if len(techValues) == 0 {
		// fall back to per-session aggregate scores when the evaluator
		// produced no technical-accuracy sub-scores
		technical = renormalize(average(sessionScores))
	}

	overall := renormalize((communication + confidence + grammar + vocabulary + technical + average(sessionScores)) / 6)
	payload.Summary = AnalyticsSummary{
		Communication: round2(communication),
		Confidence:    round2(confidence),
		Grammar:       round2(grammar),
		Vocabulary:    round2(vocabulary),
		Technical:     round2(technical),
		Overall:       round2(overall),
		OverallStatus: overallStatus(overall),
	}

	payload.CompletionRate = completionRate(sessions)
	payload.Trends = buildTrends(sessions)
	payload.Activity = buildActivity(sessions)
	payload.CompanyDistribution = distributionBy(sessions, func(s models.Session) string { return s.TargetCompany })
	payload.RoleDistribution = distributionBy(sessions, func(s models.Session) string { return s.TargetRole })
	payload.ModuleDistribution = distributionBy(sessions, func(s models.Session) string {
		if label, ok := ModuleLabels[s.Module]; ok {
			return label
		}
		return s.Module
	})
	payload.MostPracticed, payload.LeastPracticed = practicedRankings(payload.ModuleDistribution)
	payload.ConfidenceDropRate = confidenceDropRate(sessions)
	payload.GrammarIssues = commonGrammarIssues(feedbacks)
	payload.FocusAreas = focusAreas(payload.Summary)
	if payload.TotalSessions == 0 {
		// nothing to coach on yet
		payload.Tips = []string{"Start your first practice session to unlock personalized insights."}
	} else {
		payload.Tips = improvementTips(payload.Summary)
	}

	return payload
}

// turnComposite is the per-turn communication composite: the average of the
// turn's normalized clarity, grammar and confidence sub-scores. Nil when the
// turn carries none of the three.
func turnComposite(turn models.Transcript) *float64 {
	var values []float64
	for _, raw := range []*float64{turn.Clarity, turn.Grammar, turn.Confidence} {
		if v := NormalizeScore(raw); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	avg := average(values)
	return &avg
}

func vocabularyScore(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words))
	score := diversity * vocabularyScale
	if score > 100 {
		score = 100
	}
	return score
}

func completionRate(sessions []models.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	completed := 0
	for _, s := range sessions {
		if s.EndedAt != nil {
			completed++
		}
	}
	return round1(float64(completed) / float64(len(sessions)) * 100)
}

func buildTrends(sessions []models.Session) []TrendPoint {
	type dayAcc struct {
		comm, conf, gram, tech []float64
	}
	days := map[string]*dayAcc{}

	for _, session := range sessions {
		for _, turn := range session.Transcripts {
			key := turn.CreatedAt.In(istZone).Format(dayKeyFormat)
			acc, ok := days[key]
			if !ok {
				acc = &dayAcc{}
				days[key] = acc
			}
			if v := turnComposite(turn); v != nil {
				acc.comm = append(acc.comm, *v)
			}
			if v := NormalizeScore(turn.Confidence); v != nil {
				acc.conf = append(acc.conf, *v)
			}
			if v := NormalizeScore(turn.Grammar); v != nil {
				acc.gram = append(acc.gram, *v)
			}
			if v := NormalizeScore(turn.TechnicalAccuracy); v != nil {
				acc.tech = append(acc.tech, *v)
			}
		}
	}

	trends := make([]TrendPoint, 0, len(days))
	for key, acc := range days {
		trends = append(trends, TrendPoint{
			Date:          key,
			Communication: round1(average(acc.comm)),
			Confidence:    round1(average(acc.conf)),
			Grammar:       round1(average(acc.gram)),
			Technical:     round1(average(acc.tech)),
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })
	return trends
}

func buildActivity(sessions []models.Session) []ActivityPoint {
	days := map[string]int{}
	for _, s := range sessions {
		key := s.StartedAt.In(istZone).Format(dayKeyFormat)
		days[key]++
	}
	activity := make([]ActivityPoint, 0, len(days))
	for key, count := range days {
		activity = append(activity, ActivityPoint{Date: key, Sessions: count})
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].Date < activity[j].Date })
	return activity
}

func distributionBy(sessions []models.Session, keyFn func(models.Session) string) []DistributionItem {
	counts := map[string]int{}
	for _, s := range sessions {
		key := keyFn(s)
		if key == "" {
			continue
		}
		counts[key]++
	}
	items := make([]DistributionItem, 0, len(counts))
	for label, count := range counts {
		items = append(items, DistributionItem{Label: label, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	return items
}

func practicedRankings(moduleDist []DistributionItem) (most, least []DistributionItem) {
	most = []DistributionItem{}
	least = []DistributionItem{}
	n := len(moduleDist)
	for i := 0; i < n && i < 3; i++ {
		most = append(most, moduleDist[i])
	}
	start := n - 3
	if start < 0 {
		start = 0
	}
	for i := start; i < n; i++ {
		least = append(least, moduleDist[i])
	}
	return most, least
}

// confidenceDropRate reports the percentage of sessions with at least six
// turns whose last-third average confidence sits more than 8 points below the
// first-third average. A drop of exactly 8 is not flagged.
func confidenceDropRate(sessions []models.Session) float64 {
	qualifying := 0
	flagged := 0
	for _, session := range sessions {
		turns := make([]models.Transcript, len(session.Transcripts))
		copy(turns, session.Transcripts)
		if len(turns) < 6 {
			continue
		}
		qualifying++

		sort.Slice(turns, func(i, j int) bool { return turns[i].TurnNumber < turns[j].TurnNumber })
		third := len(turns) / 3

		var first, last []float64
		for _, turn := range turns[:third] {
			if v := NormalizeScore(turn.Confidence); v != nil {
				first = append(first, *v)
			}
		}
		for _, turn := range turns[len(turns)-third:] {
			if v := NormalizeScore(turn.Confidence); v != nil {
				last = append(last, *v)
			}
		}
		if len(first) == 0 || len(last) == 0 {
			continue
		}
		if average(last) < average(first)-8 {
			flagged++
		}
	}
	if qualifying == 0 {
		return 0
	}
	return round1(float64(flagged) / float64(qualifying) * 100)
}

func commonGrammarIssues(feedbacks []string) []GrammarIssue {
	counts := map[string]int{}
	for _, feedback := range feedbacks {
		for _, topic := range grammarIssuePatterns {
			if topic.Pattern.MatchString(feedback) {
				counts[topic.Label]++
			}
		}
	}
	issues := make([]GrammarIssue, 0, len(counts))
	for label, count := range counts {
		issues = append(issues, GrammarIssue{Issue: label, Count: count})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Count != issues[j].Count {
			return issues[i].Count > issues[j].Count
		}
		return issues[i].Issue < issues[j].Issue
	})
	if len(issues) > 4 {
		issues = issues[:4]
	}
	return issues
}

// focusAreas returns the two lowest-scoring summary dimensions
func focusAreas(summary AnalyticsSummary) []string {
	dims := []struct {
		Name  string
		Score float64
	}{
		{"Communication", summary.Communication},
		{"Confidence", summary.Confidence},
		{"Grammar", summary.Grammar},
		{"Vocabulary", summary.Vocabulary},
		{"Technical", summary.Technical},
	}
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].Score < dims[j].Score })
	return []string{dims[0].Name, dims[1].Name}
}

func improvementTips(summary AnalyticsSummary) []string {
	tips := []string{}
	if summary.Communication < 65 {
		tips = append(tips, "Elaborate on your answers with concrete examples; short replies keep your communication score down.")
	}
	if summary.Confidence < 65 {
		tips = append(tips, "Reduce filler words and pause instead; steady pacing reads as confidence.")
	}
	if summary.Grammar < 70 {
		tips = append(tips, "Review tense consistency and subject-verb agreement in your recent answers.")
	}
	if summary.Vocabulary < 60 {
		tips = append(tips, "Vary your word choice; repeating the same words lowers lexical diversity.")
	}
	if summary.Technical < 65 {
		tips = append(tips, "Name the tools and techniques you used; interviewers look for specific technical vocabulary.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Great progress! Keep practicing regularly to maintain your scores.")
	}
	return tips
}

func overallStatus(score float64) string {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	default:
		return StatusNeedsImprovement
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// renormalize passes an already-percent-scale value back through the
// normalizer so every published number is guaranteed to sit in [0,100]
func renormalize(v float64) float64 {
	if n := NormalizeScore(&v); n != nil {
		return *n
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
