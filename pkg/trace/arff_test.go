package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maxcopeland/openml-go/pkg/errors"
)

func TestARFFRoundTrip(t *testing.T) {
	orig := sampleTrace()
	var buf bytes.Buffer
	if err := WriteARFF(orig, &buf); err != nil {
		t.Fatalf("WriteARFF() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "@RELATION Trace") {
		t.Errorf("output does not declare the Trace relation:\n%s", out)
	}
	if !strings.Contains(out, "@ATTRIBUTE selected {true,false}") {
		t.Errorf("output is missing the selected attribute:\n%s", out)
	}
	// The entry without a setup string uses the missing-value marker.
	if !strings.Contains(out, "1,0,0,0.85,true,?") {
		t.Errorf("output is missing the ? marker row:\n%s", out)
	}

	got, err := ReadARFF(&buf)
	if err != nil {
		t.Fatalf("ReadARFF() error = %v", err)
	}
	if got.Len() != orig.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), orig.Len())
	}
	for i, want := range orig.Iterations() {
		have := got.Iterations()[i]
		if have.Key() != want.Key() {
			t.Errorf("entry %d key = %v, want %v", i, have.Key(), want.Key())
		}
		if have.Evaluation != want.Evaluation || have.Selected != want.Selected {
			t.Errorf("entry %d = %v, want %v", i, have, want)
		}
		switch {
		case want.SetupString == nil:
			if have.SetupString != nil {
				t.Errorf("entry %d setup = %q, want nil", i, *have.SetupString)
			}
		case have.SetupString == nil || *have.SetupString != *want.SetupString:
			t.Errorf("entry %d setup does not round-trip", i)
		}
	}
}

func TestWriteARFFAttributeOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteARFF(sampleTrace(), &buf); err != nil {
		t.Fatalf("WriteARFF() error = %v", err)
	}
	want := []string{
		"@ATTRIBUTE repeat NUMERIC",
		"@ATTRIBUTE fold NUMERIC",
		"@ATTRIBUTE iteration NUMERIC",
		"@ATTRIBUTE evaluation NUMERIC",
		"@ATTRIBUTE selected {true,false}",
		"@ATTRIBUTE setup_string STRING",
	}
	var got []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "@ATTRIBUTE") {
			got = append(got, line)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("declared %d attributes, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("attribute %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadARFFMissingColumns(t *testing.T) {
	raw := `@RELATION Trace
@ATTRIBUTE repeat NUMERIC
@ATTRIBUTE fold NUMERIC
@ATTRIBUTE evaluation NUMERIC
@DATA
0,0,0.5
`
	_, err := ReadARFF(strings.NewReader(raw))
	if errors.GetCode(err) != errors.ErrCodeMalformedTrace {
		t.Fatalf("ReadARFF() error = %v, want code %s", err, errors.ErrCodeMalformedTrace)
	}
	if !strings.Contains(err.Error(), "iteration") || !strings.Contains(err.Error(), "selected") {
		t.Errorf("error does not name the missing attributes: %v", err)
	}
}

func TestReadARFFStrictSelected(t *testing.T) {
	raw := `@RELATION Trace
@ATTRIBUTE repeat NUMERIC
@ATTRIBUTE fold NUMERIC
@ATTRIBUTE iteration NUMERIC
@ATTRIBUTE evaluation NUMERIC
@ATTRIBUTE selected {true,false}
@DATA
0,0,0,0.5,TRUE
`
	_, err := ReadARFF(strings.NewReader(raw))
	if errors.GetCode(err) != errors.ErrCodeMalformedTrace {
		t.Fatalf("ReadARFF() error = %v, want code %s", err, errors.ErrCodeMalformedTrace)
	}
}

func TestReadARFFWithoutSetupColumn(t *testing.T) {
	raw := `@RELATION Trace
@ATTRIBUTE repeat NUMERIC
@ATTRIBUTE fold NUMERIC
@ATTRIBUTE iteration NUMERIC
@ATTRIBUTE evaluation NUMERIC
@ATTRIBUTE selected {true,false}
@DATA
0,0,0,0.5,true
0,0,1,0.7,false
`
	got, err := ReadARFF(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadARFF() error = %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	if got.Iterations()[0].SetupString != nil {
		t.Error("setup string should be nil when the column is absent")
	}
}

func TestReadARFFDuplicatePolicy(t *testing.T) {
	raw := `@RELATION Trace
@ATTRIBUTE repeat NUMERIC
@ATTRIBUTE fold NUMERIC
@ATTRIBUTE iteration NUMERIC
@ATTRIBUTE evaluation NUMERIC
@ATTRIBUTE selected {true,false}
@ATTRIBUTE setup_string STRING
@DATA
0,0,0,0.5,false,?
0,0,0,0.9,true,?
`
	t.Run("overwrite keeps the later row", func(t *testing.T) {
		got, err := ReadARFF(strings.NewReader(raw))
		if err != nil {
			t.Fatalf("ReadARFF() error = %v", err)
		}
		if got.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", got.Len())
		}
		it, _ := got.Get(0, 0, 0)
		if it.Evaluation != 0.9 || !it.Selected {
			t.Errorf("entry = %v, want the later row", it)
		}
	})
	t.Run("reject fails", func(t *testing.T) {
		_, err := ReadARFFWith(strings.NewReader(raw), DuplicateReject)
		if errors.GetCode(err) != errors.ErrCodeMalformedTrace {
			t.Fatalf("ReadARFFWith() error = %v, want code %s", err, errors.ErrCodeMalformedTrace)
		}
	})
}

func TestReadARFFNonIntegerIndex(t *testing.T) {
	raw := `@RELATION Trace
@ATTRIBUTE repeat NUMERIC
@ATTRIBUTE fold NUMERIC
@ATTRIBUTE iteration NUMERIC
@ATTRIBUTE evaluation NUMERIC
@ATTRIBUTE selected {true,false}
@DATA
0.5,0,0,0.5,true
`
	_, err := ReadARFF(strings.NewReader(raw))
	if errors.GetCode(err) != errors.ErrCodeMalformedTrace {
		t.Fatalf("ReadARFF() error = %v, want code %s", err, errors.ErrCodeMalformedTrace)
	}
}

func TestReadARFFNoData(t *testing.T) {
	raw := `@RELATION Trace
@ATTRIBUTE repeat NUMERIC
`
	_, err := ReadARFF(strings.NewReader(raw))
	if errors.GetCode(err) != errors.ErrCodeMalformedTrace {
		t.Fatalf("ReadARFF() error = %v, want code %s", err, errors.ErrCodeMalformedTrace)
	}
}

func TestExportImportARFF(t *testing.T) {
	path := t.TempDir() + "/trace.arff"
	orig := sampleTrace()
	if err := ExportARFF(orig, path); err != nil {
		t.Fatalf("ExportARFF() error = %v", err)
	}
	got, err := ImportARFF(path)
	if err != nil {
		t.Fatalf("ImportARFF() error = %v", err)
	}
	if got.Len() != orig.Len() {
		t.Errorf("Len() = %d, want %d", got.Len(), orig.Len())
	}
}
