package json

import "testing"

func TestRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`-12`,
		`2.5`,
		`"text"`,
		`{"name": "a","size": 1}`,
		`{"nested": {"table": [{"x": 1},{"y": [1,2,3]}]}}`,
		`["mixed",1,null,{"k": false}]`,
	}
	for _, test := range tests {
		t.Run(test, func(t *testing.T) {
			got := encodeAll(t, -1, decodeOne(t, test))
			if got != test+"\n" {
				t.Errorf("round trip changed %q to %q", test, got)
			}
		})
	}
}
