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
	"fmt"
	"io"
	"os"

	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/utils/errutil"
	"github.com/sirupsen/logrus"
)

// TimestampFormat is layout of log timestamps with millisecond precision.
const TimestampFormat = "2006-01-02 15:04:05.000"

// InitLogging creates run directory and configures logrus to write both to stderr and
// the run log file. Returns run directory.
func InitLogging(appName, runID string) string {
	experimentDirectory, logFile, err := CreateExperimentDir(runID, appName)
	errutil.CheckWithContext(err, "Cannot create experiment logs directory")

	logrus.SetLevel(conf.LogLevel())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: TimestampFormat})
	logrus.Infof("Working directory %q", experimentDirectory)
	logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))

	logrus.Info("Starting ", appName, " with uid ", runID)
	fmt.Println(runID)
	return experimentDirectory
}
