package in

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	OpCreate  = "create"
	OpList    = "list"
	OpFilter  = "filter"
	OpEdit    = "edit"
	OpSummary = "summary"
	OpExport  = "export"
)

// Script is a batch of tracker operations run against one session.
//
//	label: spring search
//	steps:
//	  - op: create
//	    ref: acme
//	    record: {company: Acme, type: Formal Application, status: Applied}
//	  - op: edit
//	    statuses: [Applied]
//	    rows:
//	      - {ref: acme, status: Interviewing}
//	    delete: []
//	  - op: summary
type Script struct {
	Label string `yaml:"label"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Op       string     `yaml:"op"`
	Ref      string     `yaml:"ref"`
	Record   RecordSpec `yaml:"record"`
	Statuses []string   `yaml:"statuses"`
	Types    []string   `yaml:"types"`
	Rows     []RowSpec  `yaml:"rows"`
	Delete   []string   `yaml:"delete"`
}

type RecordSpec struct {
	Date    string `yaml:"date"`
	Company string `yaml:"company"`
	Role    string `yaml:"role"`
	Type    string `yaml:"type"`
	Contact string `yaml:"contact"`
	Status  string `yaml:"status"`
	Notes   string `yaml:"notes"`
}

// RowSpec edits one row of an edit step's view. Rows with a ref patch the
// record created under that ref; rows without one are new records.
type RowSpec struct {
	Ref     string  `yaml:"ref"`
	Date    *string `yaml:"date"`
	Company *string `yaml:"company"`
	Role    *string `yaml:"role"`
	Type    *string `yaml:"type"`
	Contact *string `yaml:"contact"`
	Status  *string `yaml:"status"`
	Notes   *string `yaml:"notes"`
}

// ParseScript decodes a script, rejecting unknown keys and unknown ops.
func ParseScript(r io.Reader) (Script, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	script := Script{}
	if err := decoder.Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, fmt.Errorf("script is empty")
		}
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	refs := map[string]bool{}
	for idx := range script.Steps {
		step := &script.Steps[idx]
		step.Op = strings.ToLower(strings.TrimSpace(step.Op))
		switch step.Op {
		case OpCreate:
			if step.Ref != "" {
				if refs[step.Ref] {
					return Script{}, fmt.Errorf("step %d: ref %q is already used", idx+1, step.Ref)
				}
				refs[step.Ref] = true
			}
		case OpList, OpFilter, OpEdit, OpSummary, OpExport:
		case "":
			return Script{}, fmt.Errorf("step %d: op is required", idx+1)
		default:
			return Script{}, fmt.Errorf("step %d: unknown op %q", idx+1, step.Op)
		}
	}
	return script, nil
}
