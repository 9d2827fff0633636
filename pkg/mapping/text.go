package mapping

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/slideslot/pkg/errors"
)

// readText decodes the line-oriented form. Unparsable lines are collected in
// Batch.Skipped and do not stop the read.
func readText(r io.Reader) (*Batch, error) {
	batch := &Batch{}
	sc := bufio.NewScanner(r)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, err := splitLine(line).request()
		if err != nil {
			batch.Skipped = append(batch.Skipped, &errors.RecordError{Line: lineNum, Record: line, Err: err})
			continue
		}
		batch.Requests = append(batch.Requests, req)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "read text mapping")
	}
	return batch, nil
}

// splitLine assigns the colon- or whitespace-separated parts of a line to
// fields in fixed order. Extra parts are ignored.
func splitLine(line string) fields {
	var parts []string
	if strings.Contains(line, ":") {
		parts = strings.Split(line, ":")
	} else {
		parts = strings.Fields(line)
	}

	f := make(fields, len(fieldOrder))
	for i, name := range fieldOrder {
		if i < len(parts) {
			f[name] = parts[i]
		}
	}
	return f
}
