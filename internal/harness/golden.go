package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/filterql/internal/ir"
)

// Snapshot converts a result to the canonical golden form:
//
//	{"cases":[{"filter":...,"kind":...,"query":...,"ids":[...]}],"scenario":name}
//
// Rejected cases carry "error" instead of "kind" and "query". The all
// query carries "query":"". Fingerprints are omitted; they change whenever
// the encoding does and are covered by queryir tests.
func Snapshot(name string, result *Result) ir.IRObject {
	cases := make(ir.IRArray, len(result.Cases))
	for i, cr := range result.Cases {
		obj := ir.IRObject{"filter": ir.IRString(cr.Filter)}
		if cr.Rejected() {
			obj["error"] = ir.IRString(cr.Error)
		} else {
			obj["kind"] = ir.IRString(cr.Kind)
			obj["query"] = ir.IRString(cr.Query)
		}
		if cr.IDs != nil {
			ids := make(ir.IRArray, len(cr.IDs))
			for j, id := range cr.IDs {
				ids[j] = ir.IRInt(id)
			}
			obj["ids"] = ids
		}
		cases[i] = obj
	}
	return ir.IRObject{
		"scenario": ir.IRString(name),
		"cases":    cases,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
