package domain

import (
	"testing"
)

func TestParseVersionKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    VersionKey
		wantErr bool
	}{
		{name: "valid date", raw: "2023-05-01", want: VersionKey("2023-05-01")},
		{name: "head", raw: "head", want: HeadVersionKey},
		{name: "not a date", raw: "v1", wantErr: true},
		{name: "wrong layout", raw: "01-05-2023", wantErr: true},
		{name: "impossible date", raw: "2023-02-30", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersionKey(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got key %s", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("expected key %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCompareVersionKeys(t *testing.T) {
	tests := []struct {
		name string
		a    VersionKey
		b    VersionKey
		want int
	}{
		{name: "earlier date is older", a: "2021-01-01", b: "2022-01-01", want: -1},
		{name: "later date is newer", a: "2022-01-01", b: "2021-01-01", want: 1},
		{name: "equal dates", a: "2021-01-01", b: "2021-01-01", want: 0},
		{name: "head newer than any date", a: HeadVersionKey, b: "2999-12-31", want: 1},
		{name: "any date older than head", a: "1999-01-01", b: HeadVersionKey, want: -1},
		{name: "head equals head", a: HeadVersionKey, b: HeadVersionKey, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareVersionKeys(tt.a, tt.b); got != tt.want {
				t.Fatalf("CompareVersionKeys(%s, %s) = %d, expected %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNewVersionRejectsBadKeys(t *testing.T) {
	if _, err := NewVersion("not-a-date"); err == nil {
		t.Fatalf("expected error for malformed key")
	}

	change := NewVersionChange("test", "")
	if _, err := NewVersion("head", change); err == nil {
		t.Fatalf("expected error for head version with changes")
	}
}

func TestVersionKeyTime(t *testing.T) {
	key := VersionKey("2023-05-01")
	parsed, err := key.Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Year() != 2023 || parsed.Month() != 5 || parsed.Day() != 1 {
		t.Fatalf("unexpected parsed date: %v", parsed)
	}

	if _, err := HeadVersionKey.Time(); err == nil {
		t.Fatalf("expected error asking head for a date")
	}
}

func TestChainLookups(t *testing.T) {
	chain := NewVersionChain(
		MustVersion("2021-01-01"),
		MustVersion("2022-01-01"),
		HeadVersion(),
	)

	if chain.Len() != 3 {
		t.Fatalf("expected 3 versions, got %d", chain.Len())
	}

	head, ok := chain.Head()
	if !ok || !head.Key.IsHead() {
		t.Fatalf("expected head as the newest entry, got %v ok=%v", head.Key, ok)
	}

	if idx := chain.IndexOf("2022-01-01"); idx != 1 {
		t.Fatalf("expected index 1 for 2022-01-01, got %d", idx)
	}
	if idx := chain.IndexOf("1999-01-01"); idx != -1 {
		t.Fatalf("expected -1 for absent version, got %d", idx)
	}

	if _, ok := chain.Resolve("2021-01-01"); !ok {
		t.Fatalf("expected 2021-01-01 to resolve")
	}

	keys := chain.Keys()
	if len(keys) != 3 || keys[0] != "2021-01-01" || keys[2] != HeadVersionKey {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
