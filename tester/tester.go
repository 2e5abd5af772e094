package tester

import (
	"fmt"
	"os"
	"reflect"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/dokelabs/dokearley"
)

// TestSuite is a YAML manifest of statements to parse against one grammar.
//
//	grammar: effects.dokedef
//	cases:
//	  - name: basic damage
//	    input: deal 7 damage
//	    start: ItemEffect
//	    out:
//	      type: Damage
//	      fields:
//	        amount: 7
type TestSuite struct {
	Name    string      `yaml:"name"`
	Grammar string      `yaml:"grammar"`
	Cases   []*TestCase `yaml:"cases"`
}

type TestCase struct {
	Name     string      `yaml:"name"`
	Input    string      `yaml:"input"`
	Start    string      `yaml:"start"`
	Children []string    `yaml:"children"`
	Out      interface{} `yaml:"out"`

	// Error marks a case that must be rejected.
	Error bool `yaml:"error"`
}

type TestResult struct {
	CaseName string
	Error    error
}

func (r *TestResult) String() string {
	if r.Error != nil {
		return fmt.Sprintf("Failed %v: %v", r.CaseName, r.Error)
	}
	return fmt.Sprintf("Passed %v", r.CaseName)
}

// ParseTestSuite reads a YAML suite manifest.
func ParseTestSuite(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	suite := &TestSuite{}
	err = yaml.Unmarshal(data, suite)
	if err != nil {
		return nil, err
	}
	return suite, nil
}

type Tester struct {
	Parser *dokearley.Dokearley
	Suite  *TestSuite
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Suite.Cases {
		rs = append(rs, runTest(t.Parser, c))
	}
	return rs
}

func runTest(p *dokearley.Dokearley, c *TestCase) *TestResult {
	v, err := p.ParseWithChildren(c.Input, c.Start, c.Children)
	if c.Error {
		if err == nil {
			return &TestResult{
				CaseName: c.Name,
				Error:    fmt.Errorf("the input must be rejected, but it was accepted"),
			}
		}
		return &TestResult{CaseName: c.Name}
	}
	if err != nil {
		return &TestResult{
			CaseName: c.Name,
			Error:    err,
		}
	}

	got, err := normalize(v)
	if err != nil {
		return &TestResult{
			CaseName: c.Name,
			Error:    err,
		}
	}
	want, err := normalize(c.Out)
	if err != nil {
		return &TestResult{
			CaseName: c.Name,
			Error:    err,
		}
	}
	if !reflect.DeepEqual(got, want) {
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(want)
		return &TestResult{
			CaseName: c.Name,
			Error:    fmt.Errorf("output mismatch\nwant: %s\ngot: %s", wantJSON, gotJSON),
		}
	}
	return &TestResult{CaseName: c.Name}
}

// normalize round-trips a value through JSON so the parser's output and the
// YAML expectation compare on the same representation.
func normalize(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	err = json.Unmarshal(data, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
