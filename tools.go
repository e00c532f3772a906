//go:build tools

package tools

import (
	// mockery generates the testify mocks under pkg/discovery/mocks.
	// Run: go run github.com/vektra/mockery/v2 (from the repo root).
	_ "github.com/vektra/mockery/v2"
)
