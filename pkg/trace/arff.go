package trace

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/maxcopeland/openml-go/pkg/errors"
)

// Relation is the ARFF relation name of the tabular trace form.
const Relation = "Trace"

// missingMarker is the ARFF missing-value token used for absent setup
// strings.
const missingMarker = "?"

// DuplicatePolicy decides what a decoder does when two rows address the
// same (repeat, fold, iteration) triple.
type DuplicatePolicy int

const (
	// DuplicateOverwrite keeps the later row, replacing the earlier one in
	// place.
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject fails the decode on the first repeated triple.
	DuplicateReject
)

var arffColumns = []string{"repeat", "fold", "iteration", "evaluation", "selected", "setup_string"}

var arffRequired = []string{"repeat", "fold", "iteration", "evaluation", "selected"}

// WriteARFF renders the trace as an ARFF relation with one row per entry,
// in insertion order. Absent setup strings become the missing-value marker.
func WriteARFF(t *Trace, w io.Writer) error {
	var b strings.Builder
	b.WriteString("@RELATION " + Relation + "\n\n")
	for _, col := range arffColumns {
		typ := "NUMERIC"
		switch col {
		case "selected":
			typ = "{true,false}"
		case "setup_string":
			typ = "STRING"
		}
		b.WriteString("@ATTRIBUTE " + col + " " + typ + "\n")
	}
	b.WriteString("\n@DATA\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cw := csv.NewWriter(w)
	for _, it := range t.Iterations() {
		setup := missingMarker
		if it.SetupString != nil {
			setup = *it.SetupString
		}
		row := []string{
			strconv.Itoa(it.Repeat),
			strconv.Itoa(it.Fold),
			strconv.Itoa(it.Iteration),
			strconv.FormatFloat(it.Evaluation, 'g', -1, 64),
			strconv.FormatBool(it.Selected),
			setup,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadARFF decodes a tabular trace, keeping the later of two rows that
// address the same triple.
func ReadARFF(r io.Reader) (*Trace, error) {
	return ReadARFFWith(r, DuplicateOverwrite)
}

// ReadARFFWith decodes a tabular trace under the given duplicate policy.
// The attribute declarations determine column positions; the required
// columns are repeat, fold, iteration, evaluation, and selected, with
// setup_string optional.
func ReadARFFWith(r io.Reader, policy DuplicatePolicy) (*Trace, error) {
	header, data, err := splitARFF(r)
	if err != nil {
		return nil, err
	}

	columns := map[string]int{}
	for i, attr := range header {
		columns[strings.ToLower(attr)] = i
	}
	var missing []string
	for _, name := range arffRequired {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeMalformedTrace,
			"trace is missing required attributes: %s", strings.Join(missing, ", "))
	}
	setupCol, hasSetup := columns["setup_string"]

	t := New()
	for _, row := range data {
		if len(row) != len(header) {
			return nil, errors.New(errors.ErrCodeMalformedTrace,
				"row has %d fields, want %d", len(row), len(header))
		}
		it := Iteration{}
		if it.Repeat, err = arffInt(row[columns["repeat"]], "repeat"); err != nil {
			return nil, err
		}
		if it.Fold, err = arffInt(row[columns["fold"]], "fold"); err != nil {
			return nil, err
		}
		if it.Iteration, err = arffInt(row[columns["iteration"]], "iteration"); err != nil {
			return nil, err
		}
		it.Evaluation, err = strconv.ParseFloat(row[columns["evaluation"]], 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeMalformedTrace,
				"evaluation %q is not numeric", row[columns["evaluation"]])
		}
		switch row[columns["selected"]] {
		case "true":
			it.Selected = true
		case "false":
			it.Selected = false
		default:
			return nil, errors.New(errors.ErrCodeMalformedTrace,
				"expected selected to be true or false, got %q", row[columns["selected"]])
		}
		if hasSetup {
			if v := row[setupCol]; v != missingMarker {
				it.SetupString = &v
			}
		}

		if policy == DuplicateReject {
			if _, ok := t.Get(it.Repeat, it.Fold, it.Iteration); ok {
				return nil, errors.New(errors.ErrCodeMalformedTrace,
					"duplicate entry for repeat %d, fold %d, iteration %d", it.Repeat, it.Fold, it.Iteration)
			}
		}
		t.Add(it)
	}
	return t, nil
}

// splitARFF separates the declaration section from the data section,
// returning the declared attribute names and the parsed data rows.
func splitARFF(r io.Reader) (attributes []string, rows [][]string, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var dataLines []string
	inData := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if inData {
			dataLines = append(dataLines, line)
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "@attribute"):
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, nil, errors.New(errors.ErrCodeMalformedTrace, "malformed attribute line %q", line)
			}
			attributes = append(attributes, fields[1])
		case strings.HasPrefix(lower, "@data"):
			inData = true
		case strings.HasPrefix(lower, "@relation"):
			// Relation name is informational.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	if !inData {
		return nil, nil, errors.New(errors.ErrCodeMalformedTrace, "no @DATA section")
	}
	if len(attributes) == 0 {
		return nil, nil, errors.New(errors.ErrCodeMalformedTrace, "no attribute declarations")
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(dataLines, "\n")))
	cr.FieldsPerRecord = -1
	rows, err = cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeMalformedTrace, err, "cannot parse data rows")
	}
	return attributes, rows, nil
}

func arffInt(s, column string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, errors.New(errors.ErrCodeMalformedTrace, "%s %q is not an integer", column, s)
	}
	return int(f), nil
}

// ExportARFF writes the tabular form to a file at path.
func ExportARFF(t *Trace, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteARFF(t, out)
}

// ImportARFF reads the tabular form from a file at path.
func ImportARFF(path string) (*Trace, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return ReadARFF(in)
}
