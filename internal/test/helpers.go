// Package test contains helpers shared by the package tests
package test

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
)

// IntegrationFlag enables tests that need a real panel server
var IntegrationFlag *bool = flag.Bool("integration", false, "run integration tests")

// Equals fails the test if exp is not equal to act.
func Equals(tb testing.TB, exp, act interface{}) {
	tb.Helper()
	require.Equal(tb, exp, act)
}

// NotEquals fails the test if exp is equal to act.
func NotEquals(tb testing.TB, exp, act interface{}) {
	tb.Helper()
	require.NotEqual(tb, exp, act)
}

// Ok fails the test if err is not nil.
func Ok(tb testing.TB, err error) {
	tb.Helper()
	require.NoError(tb, err)
}
