package search

import "testing"

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"   ":                 "",
		"  Python   Django ":  "python django",
		"C++":                 "c++",
		"Node.js\tBackend":    "node.js backend",
		"Machine\n\nLearning": "machine learning",
	}
	for in, want := range cases {
		if got := NormalizeQuery(in); got != want {
			t.Fatalf("NormalizeQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := EscapeLike(`100%_done\`); got != `100\%\_done\\` {
		t.Fatalf("unexpected escape: %q", got)
	}
	if got := ContainsPattern("go_lang"); got != `%go\_lang%` {
		t.Fatalf("unexpected pattern: %q", got)
	}
}
