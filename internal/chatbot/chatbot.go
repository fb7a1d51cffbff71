package chatbot

import (
	"sort"
	"strings"
)

// Entry is one canned FAQ answer with the keywords that trigger it.
type Entry struct {
	Topic    string
	Keywords []string
	Answer   string
}

// Response is the bot's reply to a single message.
type Response struct {
	Topic   string `json:"topic"`
	Answer  string `json:"answer"`
	Matched bool   `json:"matched"`
}

// Bot answers portal questions by keyword match against a fixed FAQ
// set. Scoring counts distinct keyword hits; ties break on the entry
// with fewer keywords, so more specific entries win.
type Bot struct {
	entries  []Entry
	fallback string
}

// New builds a bot over the given entries. Keywords are matched
// case-insensitively as whole words.
func New(entries []Entry, fallback string) *Bot {
	normalized := make([]Entry, len(entries))
	for i, entry := range entries {
		keywords := make([]string, len(entry.Keywords))
		for j, kw := range entry.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		normalized[i] = Entry{Topic: entry.Topic, Keywords: keywords, Answer: entry.Answer}
	}
	return &Bot{entries: normalized, fallback: fallback}
}

// Reply answers the message. An empty or unmatched message yields the
// fallback answer with Matched=false.
func (b *Bot) Reply(message string) Response {
	words := tokenize(message)
	if len(words) == 0 {
		return Response{Answer: b.fallback}
	}

	type scored struct {
		entry Entry
		hits  int
	}
	var candidates []scored
	for _, entry := range b.entries {
		hits := 0
		for _, kw := range entry.Keywords {
			if words[kw] {
				hits++
			}
		}
		if hits > 0 {
			candidates = append(candidates, scored{entry: entry, hits: hits})
		}
	}
	if len(candidates) == 0 {
		return Response{Answer: b.fallback}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hits != candidates[j].hits {
			return candidates[i].hits > candidates[j].hits
		}
		return len(candidates[i].entry.Keywords) < len(candidates[j].entry.Keywords)
	})
	best := candidates[0].entry
	return Response{Topic: best.Topic, Answer: best.Answer, Matched: true}
}

func tokenize(message string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		words[word] = true
	}
	return words
}
