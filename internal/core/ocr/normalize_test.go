package ocr

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"crlf and tabs", "Jane\tDoe\r\nCEO\r\n", "Jane Doe\nCEO"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"box noise", "ACME\n-----\nSales", "ACME\n\nSales"},
		{"fullwidth", "ｊａｎｅ＠ａｃｍｅ．ｃｏｍ", "jane@acme.com"},
		{"ligature", "Oﬃce", "Office"},
		{"trailing spaces", "  Jane   \n  Doe  ", "Jane\n Doe"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("%s: Normalize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestMeanTSVConfidenceEmpty(t *testing.T) {
	if c := meanTSVConfidence("level\tconf\n"); c != 0 {
		t.Fatalf("expected 0, got %v", c)
	}
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("hello")
	high := heuristicConfidence("jane@acme.com +1 415 555 0199 www.acme.com and a fairly long line of card text")
	if low >= high {
		t.Fatalf("expected contact artifacts to raise confidence: %v >= %v", low, high)
	}
	if high > 1 {
		t.Fatalf("confidence above 1: %v", high)
	}
}
