package word

import "testing"

func TestCanonicalizeFoldsJV(t *testing.T) {
	got := Canonicalize("Iulius")
	if got.String() != "iulius" {
		t.Fatalf("Canonicalize(%q) = %q, want %q", "Iulius", got.String(), "iulius")
	}
	got = Canonicalize("Julius")
	if got.String() != "iulius" {
		t.Fatalf("Canonicalize(%q) = %q, want %q", "Julius", got.String(), "iulius")
	}
	got = Canonicalize("venit")
	if got.String() != "uenit" {
		t.Fatalf("Canonicalize(%q) = %q, want %q", "venit", got.String(), "uenit")
	}
}

func TestCanonicalizeStripsDiacritics(t *testing.T) {
	got := Canonicalize("ānser") // ānser
	if got.String() != "anser" {
		t.Fatalf("Canonicalize diacritic = %q, want %q", got.String(), "anser")
	}
}

func TestCanonicalizeDropsDigitsAndBrackets(t *testing.T) {
	got := Canonicalize("[puella1]")
	if got.String() != "puella" {
		t.Fatalf("Canonicalize(%q) = %q, want %q", "[puella1]", got.String(), "puella")
	}
}

func TestCanonicalizeRetainsSlashAndHash(t *testing.T) {
	got := Canonicalize("a/b#c")
	if got.String() != "a/b#c" {
		t.Fatalf("Canonicalize retaining punctuation = %q, want %q", got.String(), "a/b#c")
	}
}

func TestCanonicalizeEmptyIsZero(t *testing.T) {
	got := Canonicalize("123")
	if !got.IsZero() {
		t.Fatalf("Canonicalize(%q) = %q, want zero word", "123", got.String())
	}
}

func TestInternerIdempotentAndDistinct(t *testing.T) {
	in := NewInterner()
	a1 := in.InternString("amo")
	a2 := in.InternString("amo")
	if a1 != a2 {
		t.Fatalf("InternString not idempotent: %v != %v", a1, a2)
	}
	b := in.InternString("amas")
	if a1 == b {
		t.Fatalf("distinct words got same id")
	}
	w, ok := in.Lookup(a1)
	if !ok || w.String() != "amo" {
		t.Fatalf("Lookup(%v) = %q, %v; want %q, true", a1, w.String(), ok, "amo")
	}
}

func TestInternerSharesLongPrefixes(t *testing.T) {
	in := NewInterner()
	ids := map[string]ID{}
	for _, f := range []string{"amo", "amas", "amat", "amamus", "amatis", "amant"} {
		ids[f] = in.InternString(f)
	}
	if in.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", in.Len())
	}
	seen := map[ID]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %v among distinct forms", id)
		}
		seen[id] = true
	}
}

func TestFieldsSplitsOnLiteralSpaceOnly(t *testing.T) {
	got := Fields("amo  amas")
	want := []string{"amo", "", "amas"}
	if len(got) != len(want) {
		t.Fatalf("Fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Fields[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
