package value

import "testing"

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		indexes []bool
		wantErr bool
	}{
		{
			name:    "single name",
			input:   "name",
			want:    []string{"name"},
			indexes: []bool{false},
		},
		{
			name:    "nested names",
			input:   "commit.author.name",
			want:    []string{"commit", "author", "name"},
			indexes: []bool{false, false, false},
		},
		{
			name:    "index member",
			input:   "items.0",
			want:    []string{"items", "0"},
			indexes: []bool{false, true},
		},
		{
			name:    "negative index",
			input:   "items.-1",
			want:    []string{"items", "-1"},
			indexes: []bool{false, true},
		},
		{
			name:    "quoted member with dot",
			input:   `"a.b".c`,
			want:    []string{"a.b", "c"},
			indexes: []bool{false, false},
		},
		{
			name:    "quoted digits stay a name",
			input:   `"0"`,
			want:    []string{"0"},
			indexes: []bool{false},
		},
		{
			name:    "empty path",
			input:   "",
			wantErr: true,
		},
		{
			name:    "empty member",
			input:   "a..b",
			wantErr: true,
		},
		{
			name:    "trailing dot",
			input:   "a.",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			input:   `"a`,
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path, err := ParsePath(test.input)
			if test.wantErr {
				if err == nil {
					t.Fatalf("expected error, got path %v", path)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if len(path) != len(test.want) {
				t.Fatalf("expected %d members, got %d", len(test.want), len(path))
			}
			for i, m := range path {
				if m.String() != test.want[i] {
					t.Errorf("member %d: expected %q, got %q", i, test.want[i], m.String())
				}
				if m.IsIndex() != test.indexes[i] {
					t.Errorf("member %d: expected IsIndex=%v", i, test.indexes[i])
				}
			}
		})
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"name", "name"},
		{"a.b.0", "a.b.0"},
		{`"x".y`, "x.y"},
	}
	for _, test := range tests {
		path, err := ParsePath(test.input)
		if err != nil {
			t.Fatalf("ParsePath(%q): %s", test.input, err)
		}
		if got := path.String(); got != test.want {
			t.Errorf("ParsePath(%q).String() = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestPathMemberSpans(t *testing.T) {
	path, err := ParsePath("ab.cde.1")
	if err != nil {
		t.Fatal(err)
	}
	wantSpans := []Span{{0, 2}, {3, 6}, {7, 8}}
	for i, m := range path {
		if m.Span() != wantSpans[i] {
			t.Errorf("member %d: expected span %v, got %v", i, wantSpans[i], m.Span())
		}
	}
}
