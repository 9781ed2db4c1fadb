package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/entityhttp/errors"
)

// Output formats accepted by --output.
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

const jqTimeout = time.Second

// compileJQ parses and compiles a jq expression. An empty expression
// yields nil.
func compileJQ(expression string) (*gojq.Code, error) {
	if expression == "" {
		return nil, nil
	}
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, errors.InvalidInput("jq", err.Error())
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, errors.InvalidInput("jq", err.Error())
	}
	return code, nil
}

// runJQ applies code to data. One result is returned as is, several as a
// list, none as nil.
func runJQ(ctx context.Context, code *gojq.Code, data any) (any, error) {
	if code == nil {
		return data, nil
	}
	ctx, cancel := context.WithTimeout(ctx, jqTimeout)
	defer cancel()

	var results []any
	iter := code.RunWithContext(ctx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, errors.InvalidInput("jq", err.Error())
		}
		results = append(results, v)
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// writeData prints data in the given format. Strings are printed as is.
func writeData(w io.Writer, data any, format string) error {
	if data == nil {
		return nil
	}
	if s, ok := data.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}
}
