package agent

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nvillagra/sage/internal/domain/calc"
	"github.com/nvillagra/sage/internal/domain/tool"
)

// The intent router is a single ordered pass over disjoint keyword classes:
// first match wins, no fallthrough once a tool is selected. It deliberately
// trades recall for zero latency and full predictability; the completion
// service still answers from its own knowledge when no tool fires.
//
// Matching is case-insensitive substring containment, not word-boundary
// matching.

var paperKeywords = []string{
	"find research", "find papers", "find article", "find studies",
	"arxiv", "scientific papers",
	"research about", "research on", "papers about", "papers on",
	"articles about", "articles on",
}

var calcKeywords = []string{"calculate", "compute", "what is", "how much is"}

const calcOperatorChars = "+-*/=²³"

var recencyKeywords = []string{
	"latest", "recent", "news", "current", "today", "now", "how many people",
}

var definitionalKeywords = []string{
	"what is", "who is", "explain", "tell me about", "define",
}

// topic-clause patterns for paper searches, tried in order.
var paperTopicRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)find\s+(?:research|papers?|articles?|studies)\s+(?:about|on|that\s+say|that\s+affirm)\s+(.+)`),
	regexp.MustCompile(`(?i)search\s+for\s+(?:research|papers?|articles?)\s+(?:about|on)\s+(.+)`),
	regexp.MustCompile(`(?i)(?:research|papers?|articles?)\s+(?:about|on)\s+(.+)`),
}

// RouteIntent inspects a raw user utterance and selects at most one tool,
// together with the argument string to pass to it. An empty tool name means
// no tool fires and the completion service answers on its own.
func RouteIntent(utterance string) (toolName, argument string) {
	lower := strings.ToLower(utterance)

	switch {
	case containsAny(lower, paperKeywords):
		return tool.NameArxiv, extractPaperTopic(utterance)
	case containsAny(lower, calcKeywords) && strings.ContainsAny(utterance, calcOperatorChars):
		return tool.NameCalculator, extractExpression(utterance)
	case containsAny(lower, recencyKeywords):
		return tool.NameWebSearch, utterance
	case containsAny(lower, definitionalKeywords):
		return tool.NameWikipedia, utterance
	default:
		return "", ""
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractPaperTopic captures the topic clause after a lead-in phrase.
// Falls back to the whole utterance when no pattern matches.
func extractPaperTopic(utterance string) string {
	for _, re := range paperTopicRes {
		if m := re.FindStringSubmatch(utterance); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), "?.!")
		}
	}
	return utterance
}

// expressionVocab is the evaluator's own identifier allow-list: an
// alphabetic run outside it ("calculate", "what", ...) terminates an
// arithmetic run instead of being swallowed into the expression.
var expressionVocab = func() map[string]struct{} {
	vocab := make(map[string]struct{})
	for _, name := range calc.Functions {
		vocab[name] = struct{}{}
	}
	for _, name := range calc.Constants {
		vocab[name] = struct{}{}
	}
	return vocab
}()

// extractExpression returns the longest contiguous arithmetic run in the
// utterance: digits, operators, parentheses, whitespace, and identifiers the
// evaluator knows. Ties go to the first maximal run. Falls back to the whole
// utterance when nothing arithmetic is found.
func extractExpression(utterance string) string {
	runes := []rune(utterance)
	best := ""
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		run := strings.Trim(string(runes[start:end]), " \t,.=?")
		if len(run) > len(best) {
			best = run
		}
		start = -1
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsLetter(r):
			wordEnd := i
			for wordEnd < len(runes) && unicode.IsLetter(runes[wordEnd]) {
				wordEnd++
			}
			word := strings.ToLower(string(runes[i:wordEnd]))
			if _, known := expressionVocab[word]; known {
				if start < 0 {
					start = i
				}
			} else {
				flush(i)
			}
			i = wordEnd
		case unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune("+-*/^%().,=²³", r):
			if start < 0 {
				start = i
			}
			i++
		default:
			flush(i)
			i++
		}
	}
	flush(len(runes))

	if best == "" {
		return utterance
	}
	return best
}
