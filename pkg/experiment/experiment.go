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

package experiment

import (
	"os"
	"path"
	"time"

	"github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
)

const logFileName = "benchmark.log"

// ExperimentDirFlag is a root directory for per-run log directories.
var ExperimentDirFlag = conf.NewStringFlag("experiment_dir", "Directory where per-run logs and the timeline history are stored.", os.TempDir())

// NewRunID returns unique identifier of a single benchmark run.
func NewRunID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "cannot generate run id")
	}
	return id.String(), nil
}

// CreateExperimentDir creates unique directory for a run under `experiment_dir`
// and opens a log file inside it.
// Directory name consists of application name, start time and run id.
func CreateExperimentDir(runID, appName string) (experimentDirectory string, logFile *os.File, err error) {
	name := appName + "_" + time.Now().Format("2006-01-02T15h04m05s") + "_" + runID
	experimentDirectory = path.Join(ExperimentDirFlag.Value(), name)

	if err = os.MkdirAll(experimentDirectory, 0777); err != nil {
		return "", nil, errors.Wrapf(err, "cannot create experiment directory %q", experimentDirectory)
	}

	logFile, err = os.OpenFile(path.Join(experimentDirectory, logFileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot create log file in %q", experimentDirectory)
	}

	return experimentDirectory, logFile, nil
}
