package test

import (
	"fmt"
	"testing"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", fmt.Sprint(observed), fmt.Sprint(expected))
	}
}

func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		color := false
		t.Fatalf("\n%s", Diff(stringB, stringA, color))
	}
}

// AssertPanics runs "fn" and returns whatever it panicked with. The test
// fails if "fn" returns normally.
func AssertPanics(t *testing.T, fn func()) (recovered interface{}) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatal("Expected a panic")
		}
	}()
	fn()
	return nil
}
