// Copyright 2025 vexec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package stringutil

import "fmt"

// StringerFunc defines a string func implementing fmt.Stringer.
type StringerFunc func() string

// String implements fmt.Stringer.
func (l StringerFunc) String() string {
	return l()
}

// MemoizeStr returns a memoized version of stringFunc. The wrapped
// function runs on the first String call and the result is reused, so
// log sites can pass it to zap.Stringer without paying for formatting
// unless the entry is actually emitted.
func MemoizeStr(stringFunc func() string) fmt.Stringer {
	var result string
	return StringerFunc(func() string {
		if result != "" {
			return result
		}
		result = stringFunc()
		return result
	})
}

// StringerStr defines an alias to a normal string implementing
// fmt.Stringer.
type StringerStr string

// String implements fmt.Stringer.
func (i StringerStr) String() string {
	return string(i)
}
