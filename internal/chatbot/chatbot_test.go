package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testBot() *Bot {
	return New([]Entry{
		{Topic: "billing", Keywords: []string{"billing", "payment", "pay", "charge"}, Answer: "billing answer"},
		{Topic: "invoices", Keywords: []string{"invoice", "receipt"}, Answer: "invoice answer"},
		{Topic: "support", Keywords: []string{"help", "ticket", "support"}, Answer: "support answer"},
	}, "fallback answer")
}

func TestReplyMatchesKeyword(t *testing.T) {
	bot := testBot()

	reply := bot.Reply("how do I see my invoice?")
	assert.True(t, reply.Matched)
	assert.Equal(t, "invoices", reply.Topic)
	assert.Equal(t, "invoice answer", reply.Answer)
}

func TestReplyIsCaseInsensitive(t *testing.T) {
	bot := testBot()

	reply := bot.Reply("INVOICE please")
	assert.True(t, reply.Matched)
	assert.Equal(t, "invoices", reply.Topic)
}

func TestReplyMostHitsWins(t *testing.T) {
	bot := testBot()

	// Two billing keywords against one support keyword.
	reply := bot.Reply("I need help with a payment charge")
	assert.Equal(t, "billing", reply.Topic)
}

func TestReplySpecificityTiebreak(t *testing.T) {
	bot := testBot()

	// One hit each; the entry with fewer keywords is more specific.
	reply := bot.Reply("receipt for my payment")
	assert.Equal(t, "invoices", reply.Topic)
}

func TestReplyWholeWordsOnly(t *testing.T) {
	bot := testBot()

	reply := bot.Reply("repayments")
	assert.False(t, reply.Matched, "substrings never match")
	assert.Equal(t, "fallback answer", reply.Answer)
}

func TestReplyFallback(t *testing.T) {
	bot := testBot()

	for _, message := range []string{"", "   ", "!!!", "completely unrelated question"} {
		reply := bot.Reply(message)
		assert.False(t, reply.Matched, "message %q", message)
		assert.Equal(t, "fallback answer", reply.Answer)
		assert.Empty(t, reply.Topic)
	}
}

func TestDefaultEntriesCoverFallback(t *testing.T) {
	bot := New(DefaultEntries(), DefaultFallback)

	reply := bot.Reply("when is my invoice due?")
	assert.True(t, reply.Matched)

	miss := bot.Reply("what is the weather like")
	assert.False(t, miss.Matched)
	assert.Equal(t, DefaultFallback, miss.Answer)
}
