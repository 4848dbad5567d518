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

// Package timeline describes the load curve of an elastic run.
//
// A timeline is a list of checkpoints, each one telling how many concurrent clients should be
// active at given second of the run. Before the run starts the checkpoints are expanded to one
// entry per interpolation step, either by linear interpolation between neighbours or by Poisson
// draws around the current level. During the run the controller keeps a History of the
// transitions it actually performed.
package timeline
