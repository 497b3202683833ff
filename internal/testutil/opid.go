package testutil

// FixedOpGenerator returns the same op token every time.
//
// Unlike versioned.FixedGenerator, which returns tokens in sequence and panics
// when they run out, this generator never runs out. It suits tests that care
// about log output but not about how many writes they make.
//
// Thread-safety: FixedOpGenerator is stateless and safe for concurrent use.
type FixedOpGenerator struct {
	token string
}

// NewFixedOpGenerator creates a generator returning token.
// If token is empty, Generate() returns "test-op".
func NewFixedOpGenerator(token string) *FixedOpGenerator {
	if token == "" {
		token = "test-op"
	}
	return &FixedOpGenerator{token: token}
}

// Generate returns the fixed op token.
func (g *FixedOpGenerator) Generate() string {
	return g.token
}
