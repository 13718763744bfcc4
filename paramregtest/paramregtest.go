// Package paramregtest provides small helpers for constructing expected
// test output, used across the registry package's tests.
package paramregtest

import "strings"

// JoinAmp joins key=value pairs with "&", the canonical query string
// separator. Use this to construct expected Instance.AsString output
// without hand-building the separator logic in every test.
//
// Example:
//
//	want := paramregtest.JoinAmp(
//		"page=1",
//		"size=20",
//	) // -> "page=1&size=20"
func JoinAmp(pairs ...string) string {
	var sb strings.Builder

	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}

		sb.WriteString(p)
	}

	return sb.String()
}
