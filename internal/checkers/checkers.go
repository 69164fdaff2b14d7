// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes the obtained JSON document
// (string or []byte), selects the value at path and compares it with the
// expected value using reflect.DeepEqual. JSON numbers decode as float64.
//
//	c.Assert(out, checkers.JSONPathEquals("$[0].status"), "todo")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

type jsonPathChecker struct {
	path string
}

// ArgNames implements qt.Checker.
func (*jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

// Check implements qt.Checker.
func (j *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("got value must be a string or []byte, not %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}

	value, err := jsonpath.Read(doc, j.path)
	if err != nil {
		note("path", j.path)
		return fmt.Errorf("cannot read JSON path: %w", err)
	}

	if !reflect.DeepEqual(value, args[0]) {
		note("path", j.path)
		note("value", value)
		return errors.New("value at JSON path does not match")
	}
	return nil
}
