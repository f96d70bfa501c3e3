package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripThinking(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no reasoning", in: "  NO  ", want: "NO"},
		{name: "reasoning block", in: "<think>\nthe user asks...\n</think>\n\nYES", want: "YES"},
		{name: "multiple blocks", in: "<think>a</think>one <think>b</think>two", want: "one two"},
		{name: "unterminated block", in: "answer<think>still going", want: "answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripThinking(tt.in))
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`  {"a":1}  `))
}
