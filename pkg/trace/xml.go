package trace

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/maxcopeland/openml-go/pkg/errors"
)

// xmlNamespace is the platform's XML namespace, bound to the oml prefix.
const xmlNamespace = "http://openml.org/openml"

// Decoding ignores the namespace prefix and matches on local names, so
// documents with or without the oml binding both parse.
type xmlTrace struct {
	RunID      *int64         `xml:"run_id"`
	Iterations []xmlIteration `xml:"trace_iteration"`
}

type xmlIteration struct {
	Repeat      int     `xml:"repeat"`
	Fold        int     `xml:"fold"`
	Iteration   int     `xml:"iteration"`
	SetupString *string `xml:"setup_string"`
	Evaluation  float64 `xml:"evaluation"`
	Selected    string  `xml:"selected"`
}

// ReadXML decodes the document form of a trace. The run id is required,
// setup strings must hold valid JSON, and the selected marker must be the
// literal true or false.
func ReadXML(r io.Reader) (*Trace, error) {
	var doc xmlTrace
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedTrace, err, "cannot parse trace document")
	}
	if doc.RunID == nil {
		return nil, errors.New(errors.ErrCodeMalformedTrace, "trace document carries no run id")
	}

	t := New()
	t.RunID = doc.RunID
	for _, x := range doc.Iterations {
		it := Iteration{
			Repeat:      x.Repeat,
			Fold:        x.Fold,
			Iteration:   x.Iteration,
			SetupString: x.SetupString,
			Evaluation:  x.Evaluation,
		}
		switch x.Selected {
		case "true":
			it.Selected = true
		case "false":
			it.Selected = false
		default:
			return nil, errors.New(errors.ErrCodeMalformedTrace,
				"expected selected to be true or false, got %q", x.Selected)
		}
		if it.SetupString != nil {
			if !json.Valid([]byte(*it.SetupString)) {
				return nil, errors.New(errors.ErrCodeMalformedTrace,
					"setup string of iteration (%d, %d, %d) is not valid JSON", it.Repeat, it.Fold, it.Iteration)
			}
		}
		t.Add(it)
	}
	return t, nil
}

// WriteXML renders the document form with the oml prefix bound to the
// platform namespace. Entries keep insertion order.
func WriteXML(t *Trace, w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, "<oml:trace xmlns:oml=%q>\n", xmlNamespace)
	if t.RunID != nil {
		fmt.Fprintf(&b, "  <oml:run_id>%d</oml:run_id>\n", *t.RunID)
	}
	for _, it := range t.Iterations() {
		b.WriteString("  <oml:trace_iteration>\n")
		fmt.Fprintf(&b, "    <oml:repeat>%d</oml:repeat>\n", it.Repeat)
		fmt.Fprintf(&b, "    <oml:fold>%d</oml:fold>\n", it.Fold)
		fmt.Fprintf(&b, "    <oml:iteration>%d</oml:iteration>\n", it.Iteration)
		if it.SetupString != nil {
			b.WriteString("    <oml:setup_string>")
			if err := xml.EscapeText(&b, []byte(*it.SetupString)); err != nil {
				return fmt.Errorf("escape setup string: %w", err)
			}
			b.WriteString("</oml:setup_string>\n")
		}
		fmt.Fprintf(&b, "    <oml:evaluation>%s</oml:evaluation>\n",
			strconv.FormatFloat(it.Evaluation, 'g', -1, 64))
		fmt.Fprintf(&b, "    <oml:selected>%t</oml:selected>\n", it.Selected)
		b.WriteString("  </oml:trace_iteration>\n")
	}
	b.WriteString("</oml:trace>\n")

	if _, err := w.Write(b.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportXML writes the document form to a file at path.
func ExportXML(t *Trace, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteXML(t, out)
}

// ImportXML reads the document form from a file at path.
func ImportXML(path string) (*Trace, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return ReadXML(in)
}
