package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Params
		max        int
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", in: Params{}, max: MaxLimit, wantOffset: 0, wantLimit: 100},
		{name: "clamps above cap", in: Params{Limit: 500}, max: MaxLimit, wantOffset: 0, wantLimit: 100},
		{name: "keeps smaller limit", in: Params{Offset: 10, Limit: 20}, max: MaxLimit, wantOffset: 10, wantLimit: 20},
		{name: "negative offset", in: Params{Offset: -5, Limit: 10}, max: MaxLimit, wantOffset: 0, wantLimit: 10},
		{name: "suggest cap", in: Params{Limit: 50}, max: SuggestLimit, wantOffset: 0, wantLimit: 5},
		{name: "zero max falls back", in: Params{Limit: 120}, max: 0, wantOffset: 0, wantLimit: 100},
	}

	for _, tt := range tests {
		got := tt.in.Normalize(tt.max)
		if got.Offset != tt.wantOffset || got.Limit != tt.wantLimit {
			t.Fatalf("%s: got offset=%d limit=%d want offset=%d limit=%d", tt.name, got.Offset, got.Limit, tt.wantOffset, tt.wantLimit)
		}
	}
}
