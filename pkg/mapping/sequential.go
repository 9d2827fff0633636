package mapping

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/slideslot/pkg/errors"
)

// readJSON decodes a JSON array of placement objects.
func readJSON(r io.Reader) (*Batch, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "decode JSON mapping")
	}
	return fromRecords(items)
}

// readYAML decodes a YAML sequence of placement mappings.
func readYAML(r io.Reader) (*Batch, error) {
	var items []map[string]any
	if err := yaml.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "decode YAML mapping")
	}
	return fromRecords(items)
}

// tomlMapping is the document shape of a TOML mapping file:
//
//	[[placement]]
//	image_number = 1
//	slide_number = "auto"
//	position = "bottom-left"
type tomlMapping struct {
	Placement []map[string]any `toml:"placement"`
}

// readTOML decodes [[placement]] tables.
func readTOML(r io.Reader) (*Batch, error) {
	var doc tomlMapping
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "decode TOML mapping")
	}
	return fromRecords(doc.Placement)
}

// fromRecords normalizes decoded sequential records. Any bad record makes
// the whole file invalid.
func fromRecords(items []map[string]any) (*Batch, error) {
	batch := &Batch{Requests: make([]Request, 0, len(items))}
	for i, item := range items {
		if item == nil {
			return nil, recordFailure(i+1, "", fmt.Errorf("record is not an object"))
		}
		f, err := fieldsFromMap(item)
		if err != nil {
			return nil, recordFailure(i+1, "", err)
		}
		req, err := f.request()
		if err != nil {
			return nil, recordFailure(i+1, "", err)
		}
		batch.Requests = append(batch.Requests, req)
	}
	return batch, nil
}

// recordFailure reports a record error as a structural failure of the file.
func recordFailure(line int, record string, err error) error {
	rec := &errors.RecordError{Line: line, Record: record, Err: err}
	return errors.Wrap(errors.ErrCodeInvalidMapping, rec, "malformed mapping")
}
