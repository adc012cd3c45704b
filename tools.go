//go:build tools

package tools

// Tool dependencies are tracked here with a build tag so `go mod tidy`
// keeps them in go.sum without pulling them into the main build. mockery
// is invoked as an installed binary (mockery --config .mockery.yaml), not
// via go run, so no blank import is needed here.
