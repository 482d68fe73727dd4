package domain

import "testing"

func TestPrintingSummary(t *testing.T) {
	p := Printing{Name: "Stomping Ground", Set: "GPT", CollectorNumber: "165"}
	got := p.Summary()
	if got != "GPT #165 - Stomping Ground" {
		t.Fatalf("Summary() = %q", got)
	}
	for _, r := range got {
		if r > 127 {
			t.Fatalf("Summary() contains non-ASCII rune %q", r)
		}
	}
}
