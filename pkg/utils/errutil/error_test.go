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

package errutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWarn(t *testing.T) {
	Convey("When warning about errors", t, func() {
		logger, hook := test.NewNullLogger()

		Convey("Nil error is not logged", func() {
			So(Warn(logger, nil, "cleanup failed"), ShouldBeFalse)
			So(hook.Entries, ShouldBeEmpty)
		})

		Convey("Error is logged at warning level with context", func() {
			So(Warn(logger, errors.New("connection reset"), "cleanup failed"), ShouldBeTrue)
			So(hook.Entries, ShouldHaveLength, 1)
			So(hook.LastEntry().Level, ShouldEqual, logrus.WarnLevel)
			So(hook.LastEntry().Message, ShouldEqual, "cleanup failed")
			So(hook.LastEntry().Data[logrus.ErrorKey].(error).Error(), ShouldEqual, "connection reset")
		})
	})
}
