package news

import (
	"math"
	"regexp"
	"strings"

	"EquitySight/internal/domain/models"
)

// Lexicon sentiment keeps scoring free of external model downloads. The word
// lists skew toward market-moving headline vocabulary.
var negWords = map[string]struct{}{
	"lawsuit": {}, "charges": {}, "fraud": {}, "decline": {}, "selloff": {},
	"sell-off": {}, "probe": {}, "investigation": {}, "misses": {}, "downgrade": {},
	"regulatory": {}, "ban": {}, "penalty": {}, "fine": {}, "layoffs": {}, "recall": {},
}

var posWords = map[string]struct{}{
	"beats": {}, "record": {}, "upgrade": {}, "innovation": {}, "launch": {},
	"surge": {}, "growth": {}, "profit": {}, "acquisition": {}, "partnership": {},
	"contract": {}, "approval": {}, "milestone": {}, "breakthrough": {},
}

var wordRe = regexp.MustCompile(`[A-Za-z']+`)

// Analyze scores text in [-1, 1] as (pos - neg) / sqrt(words), clamped.
func Analyze(text string) *models.Sentiment {
	s := &models.Sentiment{}
	if text == "" {
		return s
	}
	tokens := wordRe.FindAllString(strings.ToLower(text), -1)
	s.Words = len(tokens)
	for _, t := range tokens {
		if _, ok := posWords[t]; ok {
			s.Pos++
		}
		if _, ok := negWords[t]; ok {
			s.Neg++
		}
	}
	if s.Words > 0 {
		score := float64(s.Pos-s.Neg) / math.Sqrt(float64(s.Words))
		score = math.Max(-1, math.Min(1, score))
		s.Score = math.Round(score*1e4) / 1e4
	}
	return s
}
