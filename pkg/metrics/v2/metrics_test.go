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


package metrics_test

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/scionproto/scion-trc/pkg/metrics/v2"
)

func TestFactory(t *testing.T) {
	reg := prometheus.NewRegistry()
	var names []string
	f := metrics.ApplyOptions(
		metrics.WithRegistry(reg),
		metrics.WithCollectorCustomizer(
			func(name string, c prometheus.Collector) prometheus.Collector {
				names = append(names, name)
				return c
			},
		),
	).Auto()

	c := f.NewCounter(prometheus.CounterOpts{Namespace: "trc", Name: "total", Help: "h"})
	cv := f.NewCounterVec(prometheus.CounterOpts{Name: "results_total", Help: "h"},
		[]string{"result"})
	metrics.CounterInc(c)
	metrics.CounterAdd(cv.WithLabelValues("ok_success"), 2)

	assert.Equal(t, []string{"trc_total", "results_total"}, names)
	assert.Equal(t, 1.0, testutil.ToFloat64(c))
	assert.Equal(t, 2.0, testutil.ToFloat64(cv.WithLabelValues("ok_success")))
	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCounterNil(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.CounterInc(nil)
		metrics.CounterAdd(nil, 3)
	})
}

func TestTestCounterNegative(t *testing.T) {
	c := metrics.NewTestCounter()
	assert.Panics(t, func() { c.Add(-1) })
}

func ExampleTestCounter() {
	c := metrics.NewTestCounter()
	metrics.CounterInc(c)
	metrics.CounterAdd(c, 2)
	fmt.Println(metrics.CounterValue(c))
	// Output: 3
}
