// FILE: ultralog/sanitizer/sanitizer_test.go
package sanitizer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   PolicyPreset
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "hello\x00world\n",
			policy:   PolicyRaw,
			expected: "hello\x00world\n",
		},
		{
			name:     "txt hex encodes null byte",
			input:    "test\x00data",
			policy:   PolicyTxt,
			expected: "test<00>data",
		},
		{
			name:     "txt hex encodes line breaks",
			input:    "line1\nline2\r",
			policy:   PolicyTxt,
			expected: "line1<0a>line2<0d>",
		},
		{
			name:     "txt preserves printable",
			input:    "Hello World 123!@#",
			policy:   PolicyTxt,
			expected: "Hello World 123!@#",
		},
		{
			name:     "txt hex encodes multi-byte control",
			input:    "line1\u0085line2",
			policy:   PolicyTxt,
			expected: "line1<c285>line2",
		},
		{
			name:     "txt preserves UTF-8",
			input:    "Hello 世界 ✓",
			policy:   PolicyTxt,
			expected: "Hello 世界 ✓",
		},
		{
			name:     "line escapes breaks",
			input:    "a\nb\r\nc",
			policy:   PolicyLine,
			expected: `a\nb\r\nc`,
		},
		{
			name:     "line hex encodes other control",
			input:    "bell\x07",
			policy:   PolicyLine,
			expected: "bell<07>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New().Policy(tc.policy)
			assert.Equal(t, tc.expected, s.Sanitize(tc.input))
		})
	}
}

func TestCustomRule(t *testing.T) {
	s := New().Rule(FilterControl, TransformStrip)
	assert.Equal(t, "abc", s.Sanitize("a\x01b\x02c"))
}

func TestRuleOrder(t *testing.T) {
	// First matching rule wins
	s := New().Rule(FilterLineBreak, TransformStrip).Policy(PolicyTxt)
	assert.Equal(t, "ab<00>", s.Sanitize("a\nb\x00"))
}

func TestSanitizerConcurrent(t *testing.T) {
	s := New().Policy(PolicyTxt)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				assert.Equal(t, "x<0a>y", s.Sanitize("x\ny"))
			}
		}()
	}
	wg.Wait()
}
