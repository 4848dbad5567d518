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

package conf

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sirupsen/logrus"
)

const testAppName = "testAppName"

var customFlag = NewStringFlag("custom_arg", "help", "default")

func clearEnv() {
	// Clear all environment variables in context of that test.
	logLevelFlag.clear()
	customFlag.clear()
}

func TestConf(t *testing.T) {
	Convey("While using Conf pkg", t, func() {
		clearEnv()
		defer clearEnv()

		SetAppName(testAppName)
		SetHelp("some help")

		Convey("Name and help should match to specified one", func() {
			So(AppName(), ShouldEqual, testAppName)
			So(app.Help, ShouldEqual, "some help")
		})

		Convey("Log level can be fetched from env", func() {
			os.Setenv(logLevelFlag.envName(), "debug")

			err := Parse(nil)
			So(err, ShouldBeNil)

			So(LogLevel(), ShouldEqual, logrus.DebugLevel)
		})

		Convey("Invalid log level falls back to the default one", func() {
			os.Setenv(logLevelFlag.envName(), "chatty")

			err := Parse(nil)
			So(err, ShouldBeNil)

			So(LogLevel(), ShouldEqual, logrus.InfoLevel)
		})

		Convey("When some custom argument is defined", func() {
			Convey("When we not defined any environment variable we should have default value after parse", func() {
				err := Parse(nil)
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, customFlag.defaultValue)
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				customValue := "customContent"
				os.Setenv(customFlag.envName(), customValue)

				err := Parse(nil)
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, customValue)
			})
		})

		Convey("Command line arguments take precedence over environment", func() {
			os.Setenv(customFlag.envName(), "fromEnv")

			So(Parse([]string{"--custom_arg=fromCli"}), ShouldBeNil)
			So(customFlag.Value(), ShouldEqual, "fromCli")
		})

		Convey("Dumped config contains prefixed variables with current values", func() {
			os.Setenv(customFlag.envName(), "dumped")
			So(Parse(nil), ShouldBeNil)

			dump := DumpConfig()
			So(dump, ShouldStartWith, "# Export are values.")
			So(dump, ShouldContainSubstring, "YCSB_CUSTOM_ARG=dumped")
			So(dump, ShouldContainSubstring, "# Default: default")

			So(DumpConfigMap(map[string]string{"custom_arg": "overridden"}), ShouldContainSubstring, "YCSB_CUSTOM_ARG=overridden")
			So(GetFlags()["custom_arg"], ShouldEqual, "dumped")
		})
	})
}
