// Package pipes holds the built-in pipeline stages: ballot counting,
// answer sorting, candidate removal, and results export. Stages are plain
// functions registered under the restricted stage namespace; a pipeline
// document refers to them by their dotted identifier.
package pipes

import (
	"encoding/json"
	"fmt"

	"scrutiny/internal/pipeline"
	"scrutiny/internal/tally"
)

const (
	moduleResults = pipeline.NamespaceRoot + "." + pipeline.NamespaceStages + ".results"
	moduleSort    = pipeline.NamespaceRoot + "." + pipeline.NamespaceStages + ".sort"
)

// Meta keys the built-in stages read from a record.
const (
	// MetaWithdrawals lists answers withdrawn before counting, as
	// {question_index, answer_id} pairs consumed by do_tallies.
	MetaWithdrawals = "withdrawals"
	// MetaRemovedCandidates lists answers to strip from finished results,
	// consumed by apply_removals.
	MetaRemovedCandidates = "removed-candidates"
)

// Builtin returns a registry holding every stage this binary ships.
func Builtin() pipeline.Registry {
	reg := make(pipeline.Registry)
	reg.Register(moduleResults, "do_tallies", DoTallies)
	reg.Register(moduleResults, "to_files", ToFiles)
	reg.Register(moduleResults, "apply_removals", ApplyRemovals)
	reg.Register(moduleSort, "sort_non_iterative", SortNonIterative)
	return reg
}

// withdrawalList coerces a meta value into withdrawal pairs. The value is
// typed when Go code put it there and a generic JSON shape when it came
// from a document, so both are accepted.
func withdrawalList(v any) ([]tally.Withdrawal, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []tally.Withdrawal:
		return list, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("withdrawal list: %w", err)
		}
		var out []tally.Withdrawal
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("withdrawal list: %w", err)
		}
		return out, nil
	}
}
