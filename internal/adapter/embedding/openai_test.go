package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRuneBoundary(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short stays whole", "error body", 200, "error body"},
		{"ascii cut", "abcdef", 3, "abc..."},
		{"multibyte cut", strings.Repeat("é", 10), 4, "éééé..."},
		{"cjk cut", "サーバーエラー", 3, "サーバ..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.n)
			if got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
