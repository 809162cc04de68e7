/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolidIntervals(t *testing.T) {
	cases := []struct {
		name  string
		holes []Interval
		want  []Interval
	}{
		{"none", nil, []Interval{{0, 100}}},
		{"single", []Interval{{40, 60}}, []Interval{{0, 40}, {60, 100}}},
		{"overlap", []Interval{{40, 60}, {30, 50}}, []Interval{{0, 30}, {60, 100}}},
		{"touching", []Interval{{30, 40}, {40, 50}}, []Interval{{0, 30}, {50, 100}}},
		{"clamped", []Interval{{-10, 20}, {90, 130}}, []Interval{{20, 90}}},
		{"full", []Interval{{0, 100}}, nil},
		{"outside", []Interval{{120, 140}}, []Interval{{0, 100}}},
		{"contained", []Interval{{20, 80}, {30, 40}}, []Interval{{0, 20}, {80, 100}}},
		{"reversed", []Interval{{60, 40}}, []Interval{{0, 100}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, SolidIntervals(100, c.holes))
		})
	}
}

func TestSolidIntervalsZeroLength(t *testing.T) {
	assert.Nil(t, SolidIntervals(0, nil))
}

func TestCenteredSpan(t *testing.T) {
	iv, ok := CenteredSpan(400, 200, 90)
	assert.True(t, ok)
	assert.Equal(t, Interval{155, 245}, iv)

	iv, ok = CenteredSpan(400, 20, 90)
	assert.True(t, ok)
	assert.Equal(t, Interval{0, 90}, iv, "pushed off the start")

	iv, ok = CenteredSpan(400, 399, 90)
	assert.True(t, ok)
	assert.Equal(t, Interval{310, 400}, iv, "pushed off the end")

	_, ok = CenteredSpan(80, 40, 90)
	assert.False(t, ok, "wider than the wall")
	_, ok = CenteredSpan(80, 40, 0)
	assert.False(t, ok)
}
