package pattern

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Pattern
		wantErr bool
	}{
		{"1", SV, false},
		{"4", SVOO, false},
		{" 5 ", SVOC, false},
		{"svc", SVC, false},
		{"SVO", SVO, false},
		{"0", None, true},
		{"6", None, true},
		{"SVX", None, true},
		{"", None, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != Count {
		t.Fatalf("len(All()) = %d, want %d", len(all), Count)
	}
	for i, p := range all {
		if int(p) != i+1 {
			t.Errorf("All()[%d] = %d, want %d", i, p, i+1)
		}
		if !p.Valid() {
			t.Errorf("%v should be valid", p)
		}
	}
	if None.Valid() {
		t.Error("None should not be valid")
	}
}

func TestString(t *testing.T) {
	if SVOO.String() != "SVOO" {
		t.Errorf("SVOO.String() = %q", SVOO.String())
	}
	if Pattern(9).String() != "Pattern(9)" {
		t.Errorf("Pattern(9).String() = %q", Pattern(9).String())
	}
}

func TestFromParts(t *testing.T) {
	tests := []struct {
		objects, complements int
		want                 Pattern
		ok                   bool
	}{
		{0, 0, SV, true},
		{0, 1, SVC, true},
		{1, 0, SVO, true},
		{2, 0, SVOO, true},
		{1, 1, SVOC, true},
		{2, 1, None, false},
		{0, 2, None, false},
		{-1, 0, None, false},
	}
	for _, tt := range tests {
		got, ok := FromParts(tt.objects, tt.complements)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromParts(%d, %d) = %v, %v; want %v, %v", tt.objects, tt.complements, got, ok, tt.want, tt.ok)
		}
	}
}
