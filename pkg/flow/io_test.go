package flow

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleFlow() *Flow {
	sub := New()
	sub.Name = "sklearn.preprocessing.StandardScaler"
	sub.ClassName = "sklearn.preprocessing.StandardScaler"
	sub.ExternalVersion = "sklearn==0.19.1"
	p := `true`
	sub.Parameters.Set("with_mean", &p)
	sub.ParametersMeta.Set("with_mean", MetaInfo{})

	f := New()
	f.Name = "sklearn.pipeline.Pipeline(sklearn.preprocessing.StandardScaler)"
	f.ClassName = "sklearn.pipeline.Pipeline"
	f.Description = "Automatically created flow."
	f.ExternalVersion = "sklearn==0.19.1"
	f.Dependencies = "sklearn==0.19.1\nnumpy>=1.6.1"
	steps := `[["scale", {"oml-python:serialized_object": "component_reference", "value": {"key": "scale", "step_name": "scale"}}]]`
	f.Parameters.Set("steps", &steps)
	f.ParametersMeta.Set("steps", MetaInfo{})
	f.Parameters.Set("memory", nil)
	f.ParametersMeta.Set("memory", MetaInfo{})
	f.Components.Set("scale", sub)
	return f
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	f := sampleFlow()

	var buf bytes.Buffer
	if err := WriteJSON(f, &buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	if back.Name != f.Name {
		t.Errorf("Name = %q, want %q", back.Name, f.Name)
	}
	if back.ClassName != f.ClassName {
		t.Errorf("ClassName = %q, want %q", back.ClassName, f.ClassName)
	}
	if back.Dependencies != f.Dependencies {
		t.Errorf("Dependencies = %q, want %q", back.Dependencies, f.Dependencies)
	}
	if got, want := back.Parameters.Keys(), f.Parameters.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("parameter order = %v, want %v", got, want)
	}
	if v, ok := back.Parameters.Get("memory"); !ok || v != nil {
		t.Error("nil parameter marker should survive the round trip")
	}
	sub, ok := back.Components.Get("scale")
	if !ok {
		t.Fatal("component scale missing after round trip")
	}
	if sub.ClassName != "sklearn.preprocessing.StandardScaler" {
		t.Errorf("component ClassName = %q", sub.ClassName)
	}
}

func TestWriteJSONStable(t *testing.T) {
	f := sampleFlow()

	var a, b bytes.Buffer
	if err := WriteJSON(f, &a); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(f, &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("repeated serialization of the same flow should be byte-stable")
	}
}

func TestExportImportJSON(t *testing.T) {
	f := sampleFlow()
	path := filepath.Join(t.TempDir(), "flow.json")

	if err := ExportJSON(f, path); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON error: %v", err)
	}
	if back.Name != f.Name {
		t.Errorf("Name = %q, want %q", back.Name, f.Name)
	}
}
