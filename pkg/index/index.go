// Package index provides deterministic keyword matching of queries against
// discovered agent cards. It backs the router's fallback path, so ordering
// is fully specified: higher score first, registration order on ties.
package index

import (
	"sort"
	"strings"

	"github.com/relaymesh/relay/pkg/a2a"
	"github.com/relaymesh/relay/pkg/registry"
)

// Scoring weights. An exact skill-tag hit outranks any number of substring
// hits a single token can produce across a card's text fields.
const (
	tagScore       = 5
	substringScore = 1
)

// Match pairs an agent name with its keyword score.
type Match struct {
	Agent string
	Score int
}

// Search scores every discovered agent against the query and returns matches
// ordered by score descending, ties broken by registration order. Agents
// with no matching token are omitted; the result is empty when nothing
// matches.
func Search(snap *registry.Snapshot, query string) []Match {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var matches []Match
	for _, name := range snap.Names() {
		card, ok := snap.Card(name)
		if !ok {
			continue
		}
		if score := scoreCard(card, tokens); score > 0 {
			matches = append(matches, Match{Agent: name, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// Tokenize lowercases the query and splits it on non-alphanumeric runes.
func Tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		return !isLower && !isDigit
	})
}

func scoreCard(card *a2a.AgentCard, tokens []string) int {
	description := strings.ToLower(card.Description)

	score := 0
	for _, token := range tokens {
		score += scoreToken(card, description, token)
	}
	return score
}

func scoreToken(card *a2a.AgentCard, description, token string) int {
	score := 0

	if strings.Contains(description, token) {
		score += substringScore
	}

	for _, skill := range card.Skills {
		for _, tag := range skill.Tags {
			if strings.ToLower(tag) == token {
				score += tagScore
			}
		}
		if strings.Contains(strings.ToLower(skill.Name), token) {
			score += substringScore
		}
		if strings.Contains(strings.ToLower(skill.Description), token) {
			score += substringScore
		}
		for _, example := range skill.Examples {
			if strings.Contains(strings.ToLower(example), token) {
				score += substringScore
				break
			}
		}
	}

	return score
}
