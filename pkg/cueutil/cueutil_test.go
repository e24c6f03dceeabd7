// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string & !=""
	count?: int & >=0
	tags?: [...string]
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	res, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "build", count: 2, tags: ["a"]`), "#Doc")
	if err != nil {
		t.Fatalf("ParseAndDecode: %v", err)
	}
	if res.Value.Name != "build" || res.Value.Count != 2 || len(res.Value.Tags) != 1 {
		t.Errorf("decoded %+v", res.Value)
	}
}

func TestParseAndDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		contains []string
	}{
		{"syntax", `name: "x`, []string{"doc.cue"}},
		{"wrong type", `name: "x", count: "two"`, []string{"doc.cue", "count"}},
		{"constraint", `name: "x", count: -1`, []string{"count"}},
		{"closed struct", `name: "x", extra: 1`, []string{"extra"}},
		{"empty name", `name: ""`, []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(tt.data), "#Doc", WithFilename("doc.cue"))
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestDecodeMap_NonConcrete(t *testing.T) {
	t.Parallel()

	m, err := DecodeMap([]byte(testSchema), []byte(`name: "x"`), "#Doc", WithConcrete(false))
	if err != nil {
		t.Fatalf("DecodeMap: %v", err)
	}
	if m["name"] != "x" {
		t.Errorf("decoded %v", m)
	}
}

func TestUnify_MissingDefinition(t *testing.T) {
	t.Parallel()
	if _, err := Unify([]byte(testSchema), []byte(`name: "x"`), "#Nope"); err == nil {
		t.Error("expected an error for an unknown schema definition")
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f.cue"); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f.cue"); err == nil {
		t.Error("expected an error above the limit")
	}
	_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(`name: "xxxxxxxxxx"`), "#Doc", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("nil error should stay nil")
	}
	err := FormatError(errors.New("boom"), "x.cue")
	if err == nil || err.Error() != "x.cue: boom" {
		t.Errorf("FormatError = %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"tasks", "0", "args", "12", "type"}, "tasks[0].args[12].type"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
