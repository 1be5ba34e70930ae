package model

import "testing"

func TestParseStrongID(t *testing.T) {
	cases := []struct {
		in   string
		want StrongID
	}{
		{"H1234", "H1234"},
		{"g430", "G430"},
		{"H1234A", "H1234a"},
	}
	for _, c := range cases {
		got, err := ParseStrongID(c.in)
		if err != nil {
			t.Fatalf("ParseStrongID(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseStrongID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStrongIDBase(t *testing.T) {
	if StrongID("H1234a").Base() != StrongID("H1234") {
		t.Errorf("Base() did not strip homograph letter")
	}
	if StrongID("H1234").Base() != StrongID("H1234") {
		t.Errorf("Base() altered an id with no homograph letter")
	}
}

func TestArticleTagAndLink(t *testing.T) {
	a, err := ParseArticle("kt/grace")
	if err != nil {
		t.Fatalf("ParseArticle: %v", err)
	}
	if a.Tag() != "keyterm" {
		t.Errorf("Tag() = %q, want keyterm", a.Tag())
	}
	if a.TWLink() != "rc://*/tw/dict/bible/kt/grace" {
		t.Errorf("TWLink() = %q", a.TWLink())
	}
	if a.Slug() != "grace" {
		t.Errorf("Slug() = %q", a.Slug())
	}

	if _, err := ParseArticle("bogus"); err == nil {
		t.Error("expected error for malformed article path")
	}
}

func TestBookLookup(t *testing.T) {
	b, ok := BookByID("gen")
	if !ok || b.Code != "GEN" {
		t.Fatalf("BookByID(gen) = %+v, %v", b, ok)
	}
	if !IsBookCode("rev") {
		t.Error("IsBookCode(rev) = false")
	}
	if len(AllBooks()) != 66 {
		t.Errorf("AllBooks() has %d entries, want 66", len(AllBooks()))
	}
}

func TestEncodeDecodeTSVRoundTrip(t *testing.T) {
	rows := []Row{
		{Reference: "1:1", ID: "a1b2", Tags: "keyterm", OrigWords: "God", Occurrence: 1, TWLink: "rc://*/tw/dict/bible/kt/god"},
	}
	text := EncodeTSV(rows)
	got, err := DecodeTSV(text)
	if err != nil {
		t.Fatalf("DecodeTSV: %v", err)
	}
	if len(got) != 1 || got[0].OrigWords != "God" || got[0].Occurrence != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
