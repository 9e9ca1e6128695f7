package utils

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
)

// NormalizeScore maps heterogeneous raw score representations onto the
// canonical 0-100 scale. The system ingests scores from multiple producers:
// the AI evaluator returns 0-10, stored session aggregates are 0-1 and some
// legacy fields are already 0-100. A raw value of exactly 1 is ambiguous
// between the 0-1 and 0-10 scales; it is treated as the 0-1 case (-> 100).
func NormalizeScore(raw *float64) *float64 {
	if raw == nil || math.IsNaN(*raw) {
		return nil
	}

	score := *raw
	switch {
	case score <= 1:
		score = score * 100
	case score <= 10:
		score = score * 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}

// SubScores holds the four 0-10 dimension scores produced by the scorer
type SubScores struct {
	Technical     int `json:"technical"`
	Communication int `json:"communication"`
	Grammar       int `json:"grammar"`
	Confidence    int `json:"confidence"`
}

// SessionScore is the result of scoring one session's transcript turns
type SessionScore struct {
	Score     int       `json:"score"` // 0-100
	Status    string    `json:"status"`
	SubScores SubScores `json:"sub_scores"`
}

// ScoreSession computes a session's aggregate score and status from its
// ordered transcript turns. Pure function with no I/O so the live submit
// path and the backfill script cannot drift apart. Malformed input never
// panics; missing fields default to empty and the no-answers case returns
// the Incomplete result.
func ScoreSession(turns []models.Transcript) SessionScore {
	var answers []string
	for _, turn := range turns {
		answer := strings.TrimSpace(turn.UserAnswer)
		if answer != "" {
			answers = append(answers, strings.ToLower(answer))
		}
	}

	if len(answers) == 0 {
		return SessionScore{Score: 0, Status: StatusIncomplete}
	}

	corpus := strings.Join(answers, " ")
	words := strings.Fields(corpus)
	totalWords := len(words)
	avgWordsPerAnswer := float64(totalWords) / float64(len(answers))

	technical := technicalSubScore(corpus)
	communication := communicationSubScore(avgWordsPerAnswer)
	grammar := 5
	confidence := 5

	// Heavy filler usage reads as hesitation
	if totalWords > 0 {
		fillerCount := 0
		for _, w := range words {
			w = strings.Trim(w, ".,!?;:")
			for _, filler := range FillerWords {
				if w == filler {
					fillerCount++
					break
				}
			}
		}
		if float64(fillerCount)/float64(totalWords) > 0.10 {
			confidence -= 3
			if confidence < 2 {
				confidence = 2
			}
		}
	}

	// Hinglish detection caps grammar and confidence
	if containsAnyWord(words, HinglishMarkers) {
		if grammar > 6 {
			grammar = 6
		}
		if confidence > 6 {
			confidence = 6
		}
	}

	sum := technical + communication + grammar + confidence
	score := int(math.Round(float64(sum) / 40.0 * 100))

	return SessionScore{
		Score:  score,
		Status: sessionStatus(score),
		SubScores: SubScores{
			Technical:     technical,
			Communication: communication,
			Grammar:       grammar,
			Confidence:    confidence,
		},
	}
}

func technicalSubScore(corpus string) int {
	matches := 0
	for _, keyword := range TechnicalKeywords {
		if containsTerm(corpus, keyword) {
			matches++
		}
	}

	var score int
	switch {
	case matches == 0:
		score = 0
	case matches <= 2:
		score = 4
	default:
		score = 7 + (matches - 3)
		if score > 9 {
			score = 9
		}
	}

	// Naming the product or talking about APIs counts as minimal
	// technical awareness
	if score < 5 {
		for _, term := range ProductTerms {
			if containsTerm(corpus, term) {
				score = 5
				break
			}
		}
	}

	return score
}

// containsTerm reports whether the corpus contains term as a whole token.
// Occurrences flanked by letters or digits do not count, so "legitimate"
// never matches "git" and "rapid" never matches "api". Terms may span
// several words or carry symbols ("machine learning", "c++", "ci/cd").
func containsTerm(corpus, term string) bool {
	for start := 0; ; {
		i := strings.Index(corpus[start:], term)
		if i < 0 {
			return false
		}
		i += start

		leftOK := i == 0
		if !leftOK {
			r, _ := utf8.DecodeLastRuneInString(corpus[:i])
			leftOK = !isWordRune(r)
		}
		rightOK := i+len(term) == len(corpus)
		if !rightOK {
			r, _ := utf8.DecodeRuneInString(corpus[i+len(term):])
			rightOK = !isWordRune(r)
		}
		if leftOK && rightOK {
			return true
		}
		start = i + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func communicationSubScore(avgWordsPerAnswer float64) int {
	switch {
	case avgWordsPerAnswer < 3:
		return 2
	case avgWordsPerAnswer <= 15:
		return 5
	default:
		return 8
	}
}

func sessionStatus(score int) string {
	switch {
	case score >= 71:
		return StatusExcellent
	case score >= 31:
		return StatusGood
	default:
		return StatusNeedsPractice
	}
}

func containsAnyWord(words []string, markers []string) bool {
	for _, w := range words {
		// strip trailing punctuation so "hai," still matches
		w = strings.Trim(w, ".,!?;:")
		for _, marker := range markers {
			if w == marker {
				return true
			}
		}
	}
	return false
}
