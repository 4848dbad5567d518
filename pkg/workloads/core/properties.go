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

package core

import (
	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/utils/err_collection"
)

// Request distributions.
const (
	Uniform = "uniform"
	Zipfian = "zipfian"
	Latest  = "latest"
)

// Config is parsed set of core workload properties.
type Config struct {
	Table                     string
	FieldCount                int
	FieldLength               int
	ReadAllFields             bool
	WriteAllFields            bool
	ReadProportion            float64
	UpdateProportion          float64
	InsertProportion          float64
	ScanProportion            float64
	ReadModifyWriteProportion float64
	RequestDistribution       string
	ZipfianConstant           float64
	MaxScanLength             int
	OrderedInserts            bool
	RecordCount               int64
	InsertStart               int64
}

type parser struct {
	props conf.Properties
	errs  errcollection.ErrorCollection
}

func (p *parser) int(name string, defaultValue int) int {
	value, err := p.props.Int(name, defaultValue)
	p.errs.Add(err)
	return value
}

func (p *parser) int64(name string, defaultValue int64) int64 {
	value, err := p.props.Int64(name, defaultValue)
	p.errs.Add(err)
	return value
}

func (p *parser) float(name string, defaultValue float64) float64 {
	value, err := p.props.Float(name, defaultValue)
	p.errs.Add(err)
	return value
}

func (p *parser) bool(name string, defaultValue bool) bool {
	value, err := p.props.Bool(name, defaultValue)
	p.errs.Add(err)
	return value
}

// ConfigFromProperties parses properties reporting all malformed ones at once.
func ConfigFromProperties(props conf.Properties) (Config, error) {
	p := &parser{props: props}
	c := Config{
		Table:                     props.String("table", "usertable"),
		FieldCount:                p.int("fieldcount", 10),
		FieldLength:               p.int("fieldlength", 100),
		ReadAllFields:             p.bool("readallfields", true),
		WriteAllFields:            p.bool("writeallfields", false),
		ReadProportion:            p.float("readproportion", 0.95),
		UpdateProportion:          p.float("updateproportion", 0.05),
		InsertProportion:          p.float("insertproportion", 0),
		ScanProportion:            p.float("scanproportion", 0),
		ReadModifyWriteProportion: p.float("readmodifywriteproportion", 0),
		RequestDistribution:       props.String("requestdistribution", Uniform),
		ZipfianConstant:           p.float("zipfianconstant", 1.01),
		MaxScanLength:             p.int("maxscanlength", 1000),
		OrderedInserts:            props.String("insertorder", "hashed") == "ordered",
		RecordCount:               p.int64("recordcount", 0),
		InsertStart:               p.int64("insertstart", 0),
	}
	if err := p.errs.GetErrIfAny(); err != nil {
		return Config{}, err
	}
	return c, c.validate()
}

func (c Config) validate() error {
	var errs errcollection.ErrorCollection
	if c.FieldCount <= 0 {
		errs.Add(errors.Errorf("fieldcount must be positive, got %d", c.FieldCount))
	}
	if c.FieldLength <= 0 {
		errs.Add(errors.Errorf("fieldlength must be positive, got %d", c.FieldLength))
	}
	if c.MaxScanLength <= 0 {
		errs.Add(errors.Errorf("maxscanlength must be positive, got %d", c.MaxScanLength))
	}
	if c.RecordCount < 0 || c.InsertStart < 0 {
		errs.Add(errors.Errorf("recordcount and insertstart must be non-negative, got %d and %d", c.RecordCount, c.InsertStart))
	}
	proportions := []float64{c.ReadProportion, c.UpdateProportion, c.InsertProportion, c.ScanProportion, c.ReadModifyWriteProportion}
	var total float64
	for _, proportion := range proportions {
		if proportion < 0 {
			errs.Add(errors.Errorf("operation proportions must be non-negative, got %v", proportions))
			break
		}
		total += proportion
	}
	if total <= 0 {
		errs.Add(errors.New("at least one operation proportion must be positive"))
	}
	switch c.RequestDistribution {
	case Uniform:
	case Zipfian, Latest:
		if c.ZipfianConstant <= 1 {
			errs.Add(errors.Errorf("zipfianconstant must be greater than 1, got %g", c.ZipfianConstant))
		}
	default:
		errs.Add(errors.Errorf("unknown requestdistribution %q", c.RequestDistribution))
	}
	return errs.GetErrIfAny()
}
