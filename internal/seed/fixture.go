package seed

import _ "embed"

//go:embed fixture.yaml
var defaultFixture []byte

// Default returns the built-in fixture: three root folders with a mix
// of healthy, stalled, on-hold, and dropped projects.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}
