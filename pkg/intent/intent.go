// Package intent classifies a free-form query into weighted goal categories
// using a fixed phrase and keyword table. Classification is pure and
// deterministic: the same query always yields the same intents in the same
// order, which the engine's reproducibility guarantees depend on.
package intent

import (
	"sort"
	"strings"
	"unicode"
)

// Intent is one classified category with its confidence score.
type Intent struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

const (
	phraseScore  = 1.0
	keywordScore = 0.3
	scoreFloor   = 0.3
	maxIntents   = 3
)

// category pairs exact trigger phrases (worth 1.0 each) with loose keywords
// (worth 0.3 each, word-boundary aware).
type category struct {
	name     string
	phrases  []string
	keywords []string
}

// The trigger tables are data, not behavior: adding a category or phrase
// must never require touching the classifier logic.
var categories = []category{
	{
		name:     "cost_reduction",
		phrases:  []string{"reduce cost", "save money", "cut spending", "lower the bill"},
		keywords: []string{"cost", "cheap", "cheaper", "budget", "spend", "billing", "reduce"},
	},
	{
		name:     "performance",
		phrases:  []string{"make it faster", "speed up", "improve performance", "reduce latency"},
		keywords: []string{"fast", "faster", "slow", "latency", "throughput", "performance", "optimize"},
	},
	{
		name:     "debugging",
		phrases:  []string{"find the bug", "why is it failing", "root cause"},
		keywords: []string{"debug", "bug", "error", "crash", "failing", "broken", "fix", "diagnose"},
	},
	{
		name:     "learning",
		phrases:  []string{"how does", "what is", "explain to me", "teach me"},
		keywords: []string{"learn", "understand", "explain", "tutorial", "documentation", "example"},
	},
	{
		name:     "building",
		phrases:  []string{"how do i build", "set up", "get started with", "create a"},
		keywords: []string{"build", "create", "implement", "develop", "setup", "scaffold", "make"},
	},
	{
		name:     "optimization",
		phrases:  []string{"fine tune", "squeeze more", "make it efficient"},
		keywords: []string{"optimize", "tune", "efficient", "improve", "streamline", "refine"},
	},
	{
		name:     "migration",
		phrases:  []string{"move from", "migrate to", "switch from", "port to"},
		keywords: []string{"migrate", "migration", "upgrade", "switch", "transition", "port"},
	},
	{
		name:     "integration",
		phrases:  []string{"connect to", "integrate with", "hook up", "plug into"},
		keywords: []string{"integrate", "integration", "connect", "api", "webhook", "plugin", "combine"},
	},
	{
		name:     "security",
		phrases:  []string{"lock down", "is it secure", "protect against"},
		keywords: []string{"secure", "security", "auth", "encrypt", "vulnerability", "protect", "permission"},
	},
	{
		name:     "scaling",
		phrases:  []string{"scale up", "scale out", "handle more load", "high availability"},
		keywords: []string{"scale", "scaling", "load", "capacity", "grow", "traffic", "distributed"},
	},
	{
		name:     "automation",
		phrases:  []string{"automate the", "run automatically", "on a schedule"},
		keywords: []string{"automate", "automation", "schedule", "pipeline", "workflow", "trigger", "cron"},
	},
	{
		name:     "comparison",
		phrases:  []string{"which is better", "compare with", "difference between", "pros and cons"},
		keywords: []string{"compare", "versus", "vs", "better", "alternative", "tradeoff", "difference"},
	},
	{
		name:     "troubleshooting",
		phrases:  []string{"not working", "stopped working", "keeps failing", "went wrong"},
		keywords: []string{"troubleshoot", "issue", "problem", "wrong", "stuck", "investigate", "outage"},
	},
	{
		name:     "capability",
		phrases:  []string{"can it", "is it possible", "does it support", "is it able to"},
		keywords: []string{"can", "possible", "support", "supports", "capable", "able", "limitation"},
	},
}

// goalVerbs is the subset of keywords that name an action rather than a
// subject. The BM25 mechanism weights these terms 5x; this list is the single
// source for that multiplier.
var goalVerbs = map[string]struct{}{
	"reduce": {}, "build": {}, "create": {}, "optimize": {}, "debug": {},
	"fix": {}, "improve": {}, "migrate": {}, "integrate": {}, "connect": {},
	"scale": {}, "automate": {}, "secure": {}, "learn": {}, "understand": {},
	"compare": {}, "tune": {}, "achieve": {}, "implement": {}, "troubleshoot": {},
}

// Classify scores the query against every category table. Categories below
// the 0.3 floor are dropped; the top 3 are returned in descending score
// order, ties broken by category name.
func Classify(query string) []Intent {
	normalized := normalize(query)
	if normalized == "" {
		return nil
	}
	words := wordSet(normalized)

	var out []Intent
	for _, cat := range categories {
		score := 0.0
		for _, phrase := range cat.phrases {
			if strings.Contains(normalized, phrase) {
				score += phraseScore
			}
		}
		for _, kw := range cat.keywords {
			if _, ok := words[kw]; ok {
				score += keywordScore
			}
		}
		if score >= scoreFloor {
			out = append(out, Intent{Category: cat.name, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Category < out[j].Category
		}
		return out[i].Score > out[j].Score
	})

	if len(out) > maxIntents {
		out = out[:maxIntents]
	}
	return out
}

// GoalTerms extracts the query terms that are recognized goal verbs. The
// result feeds the BM25 intent-term multiplier.
func GoalTerms(query string) map[string]struct{} {
	out := make(map[string]struct{})
	for word := range wordSet(normalize(query)) {
		if _, ok := goalVerbs[word]; ok {
			out[word] = struct{}{}
		}
	}
	return out
}

// KeywordsFor returns the keyword table of the named category, or nil when
// the category is unknown. The engine uses it to measure how strongly a node
// matches a classified intent.
func KeywordsFor(name string) []string {
	for _, cat := range categories {
		if cat.name == name {
			return cat.keywords
		}
	}
	return nil
}

// Categories lists every known category name, for documentation surfaces.
func Categories() []string {
	out := make([]string, 0, len(categories))
	for _, cat := range categories {
		out = append(out, cat.name)
	}
	return out
}

func normalize(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

func wordSet(normalized string) map[string]struct{} {
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
