package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Fatalf("expected unmodified string, got %q", got)
	}
	if got := TruncateRunes("hello world", 5); got != "hello…" {
		t.Fatalf("expected truncated string with ellipsis, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Qwen/Qwen2.5-7B-Instruct", "qwen-qwen2-5-7b-instruct"},
		{"meta-llama:latest", "meta-llama_latest"},
		{"  Mixed CASE  name ", "mixed-case-name"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWrapToWidth(t *testing.T) {
	got := WrapToWidth("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Fatalf("WrapToWidth = %q, want %q", got, want)
	}
	if got := WrapToWidth("untouched", 0); got != "untouched" {
		t.Fatalf("width 0 should return input unchanged, got %q", got)
	}
}
