package devserver

import "strings"

// Small polarity lexicon for the admin moderation view. Scores are the
// net polarity of matched words normalized to [-1, 1]; this is a coarse
// triage signal, not real NLP.
var sentimentLexicon = map[string]float64{
	"love": 1, "great": 1, "awesome": 1, "amazing": 1,
	"good": 0.5, "nice": 0.5, "happy": 0.5, "fun": 0.5,
	"like": 0.25, "cool": 0.25, "thanks": 0.25,
	"bad": -0.5, "sad": -0.5, "boring": -0.5, "annoying": -0.5,
	"hate": -1, "terrible": -1, "awful": -1, "horrible": -1,
	"worst": -1, "disgusting": -1,
}

// scoreSentiment returns the average polarity of recognized words in text,
// or 0 when nothing matches.
func scoreSentiment(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var total float64
	var matched int
	for _, w := range words {
		if score, ok := sentimentLexicon[w]; ok {
			total += score
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return total / float64(matched)
}
