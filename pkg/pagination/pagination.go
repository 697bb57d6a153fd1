package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 100
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
	// SuggestLimit caps the narrow quick-suggest lookups.
	SuggestLimit = 5
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Offset int
	Limit  int
}

// Normalize clamps the params against the provided cap. A non-positive limit
// falls back to the cap; anything above the cap is clamped, never passed
// through. Negative offsets are treated as zero.
func (p Params) Normalize(max int) Params {
	if max <= 0 {
		max = MaxLimit
	}
	out := p
	if out.Offset < 0 {
		out.Offset = 0
	}
	if out.Limit <= 0 || out.Limit > max {
		out.Limit = max
	}
	return out
}
