// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package metrics contains the metric interfaces used throughout the code
// base and the factory that registers prometheus metrics.
package metrics

// Counter describes a metric that accumulates values monotonically.
// prometheus.Counter satisfies this interface.
type Counter interface {
	Add(delta float64)
}

// CounterAdd increases c by delta. If c is nil, this is a no-op.
func CounterAdd(c Counter, delta float64) {
	if c == nil {
		return
	}
	c.Add(delta)
}

// CounterInc increases c by 1. If c is nil, this is a no-op.
func CounterInc(c Counter) {
	CounterAdd(c, 1)
}
