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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Checkpoint is desired number of active clients at given second of the run.
type Checkpoint struct {
	Time   float64 `yaml:"time"`
	Target int     `yaml:"value"`
}

func (c Checkpoint) String() string {
	return fmt.Sprintf("(%gs, %d)", c.Time, c.Target)
}

// Mode selects how intermediate checkpoints are generated.
type Mode string

const (
	// Linear interpolates targets between neighbouring checkpoints.
	Linear Mode = "linear"
	// Poisson draws intermediate targets from Poisson distribution with mean equal to the
	// preceding checkpoint target.
	Poisson Mode = "poisson"
)

// ParseMode returns mode for given name. Empty name means Linear.
// Unknown names are reported together with Linear mode, so caller may decide to continue.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case Linear, "":
		return Linear, nil
	case Poisson:
		return Poisson, nil
	}
	return Linear, errors.Errorf("unknown interpolation mode %q, supported modes are %q and %q", name, Linear, Poisson)
}

// Validate checks that checkpoints form a usable timeline: at least one entry, non-negative
// times and targets, strictly ascending times.
func Validate(checkpoints []Checkpoint) error {
	if len(checkpoints) == 0 {
		return errors.New("timeline is empty")
	}
	for i, checkpoint := range checkpoints {
		if checkpoint.Time < 0 {
			return errors.Errorf("checkpoint #%d %v has negative time", i, checkpoint)
		}
		if checkpoint.Target < 0 {
			return errors.Errorf("checkpoint #%d %v has negative target", i, checkpoint)
		}
		if i > 0 && checkpoints[i-1].Time >= checkpoint.Time {
			return errors.Errorf("checkpoints are not in ascending time order: %v is followed by %v", checkpoints[i-1], checkpoint)
		}
	}
	return nil
}
