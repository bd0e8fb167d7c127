package markup

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Shakespeare", "Shakespeare"},
		{"<i>Hamlet</i>", "<i>Hamlet</i>"},
		{"<I class=\"x\">Big</I>", "<i>Big</i>"},
		{"line<br/>two", "line<br>two"},
		{"Tom & Jerry", "Tom &amp; Jerry"},
		{"AT&amp;T", "AT&amp;T"},
		{`<a href="x">link</a>`, "&lt;a href=&#34;x&#34;&gt;link&lt;/a&gt;"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"  (the) <b>Beatles</b> ", "(the) <b>Beatles</b>"},
	}
	for _, tc := range tests {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Answer: <i>Hamlet</i> &amp; co", "Answer: Hamlet & co"},
		{"one<br>two", "one\ntwo"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := Plain(tc.in); got != tc.want {
			t.Errorf("Plain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
