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
	"bytes"
	"io/ioutil"
	"os"
	"path"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHistory(t *testing.T) {
	Convey("When recording controller transitions", t, func() {
		history := &History{}
		history.Append(0, 5)
		history.Append(1000000, 10)
		history.Append(2000000, 10)
		history.Append(3000000, 0)

		Convey("Entries are kept in order", func() {
			So(history.Len(), ShouldEqual, 4)
			So(history.Entries()[1], ShouldResemble, Entry{OffsetMicros: 1000000, Clients: 10})
		})

		Convey("It is dumped as time,count lines without header", func() {
			buffer := &bytes.Buffer{}
			n, err := history.WriteTo(buffer)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, buffer.Len())
			So(buffer.String(), ShouldEqual, "0,5\n1000000,10\n2000000,10\n3000000,0\n")
		})

		Convey("It can be persisted to a file", func() {
			dir, err := ioutil.TempDir("", "timeline")
			So(err, ShouldBeNil)
			defer os.RemoveAll(dir)

			file := path.Join(dir, "timeline.log")
			So(history.Persist(file), ShouldBeNil)

			content, err := ioutil.ReadFile(file)
			So(err, ShouldBeNil)
			So(string(content), ShouldStartWith, "0,5\n")
		})
	})

	Convey("Empty history creates no file", t, func() {
		dir, err := ioutil.TempDir("", "timeline")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		file := path.Join(dir, "timeline.log")
		So((&History{}).Persist(file), ShouldBeNil)
		_, err = os.Stat(file)
		So(os.IsNotExist(err), ShouldBeTrue)
	})
}
