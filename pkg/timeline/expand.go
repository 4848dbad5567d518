// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package timeline

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// stepEpsilon absorbs float error when time difference is an exact multiple of step.
const stepEpsilon = 1e-9

// Expand inserts intermediate checkpoints between every pair of neighbours, so that targets are
// known at every multiple of step. Source is used only in Poisson mode; nil means a randomly
// seeded one.
// Input is validated first; on error nothing is expanded.
func Expand(checkpoints []Checkpoint, step float64, mode Mode, src rand.Source) ([]Checkpoint, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.Errorf("interpolation step must be positive, got %g", step)
	}
	if err := Validate(checkpoints); err != nil {
		return nil, errors.Wrap(err, "cannot expand timeline")
	}
	if mode == Poisson && src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	expanded := make([]Checkpoint, 0, len(checkpoints))
	for i := 0; i < len(checkpoints)-1; i++ {
		current, next := checkpoints[i], checkpoints[i+1]
		expanded = append(expanded, current)

		steps := int(math.Floor((next.Time-current.Time)/step+stepEpsilon)) - 1
		slope := float64(next.Target-current.Target) / (next.Time - current.Time)
		for j := 1; j <= steps; j++ {
			offset := float64(j) * step
			point := Checkpoint{Time: current.Time + offset}
			switch mode {
			case Poisson:
				point.Target = poissonDraw(float64(current.Target), src)
			default:
				point.Target = int(math.Round(slope*offset + float64(current.Target)))
			}
			expanded = append(expanded, point)
		}
	}
	expanded = append(expanded, checkpoints[len(checkpoints)-1])

	return expanded, nil
}

func poissonDraw(lambda float64, src rand.Source) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: src}.Rand())
}

// Targets returns target values of checkpoints in order.
func Targets(checkpoints []Checkpoint) []int {
	targets := make([]int, len(checkpoints))
	for i, checkpoint := range checkpoints {
		targets[i] = checkpoint.Target
	}
	return targets
}
