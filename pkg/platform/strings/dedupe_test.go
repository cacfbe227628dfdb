package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "trims, drops blanks and duplicates in order",
			input:    []string{"  localhost:9092 ", "b:9092", "localhost:9092", "", "  "},
			expected: []string{"localhost:9092", "b:9092"},
		},
		{
			name:     "preserves case",
			input:    []string{"Approve", "approve"},
			expected: []string{"Approve", "approve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	assert.Nil(t, DedupeAndTrimLower(nil))
	assert.Equal(t,
		[]string{"approve", "modifytransferlimit"},
		DedupeAndTrimLower([]string{" Approve", "modifyTransferLimit", "APPROVE", ""}),
	)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(" "))
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitList("a:9092, b:9092,,a:9092"))
}
