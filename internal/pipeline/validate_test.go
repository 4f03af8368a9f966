package pipeline

import (
	"errors"
	"testing"
)

func TestValidate_WellFormedIdentifiers(t *testing.T) {
	valid := []string{
		"scrutiny.pipes",
		"scrutiny.pipes.do_tallies",
		"scrutiny.pipes.results.do_tallies",
		"scrutiny.pipes.sort.sort_non_iterative",
	}
	for _, id := range valid {
		if err := Validate(id); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", id, err)
		}
	}
}

func TestValidate_RejectsEverythingElse(t *testing.T) {
	cases := []struct {
		name string
		id   string
	}{
		{"namespace escape", "os.system"},
		{"single segment", "scrutiny"},
		{"empty string", ""},
		{"five segments", "scrutiny.pipes.a.b.c"},
		{"wrong root", "other.pipes.do_tallies"},
		{"wrong stages segment", "scrutiny.other.do_tallies"},
		{"underscore segment", "scrutiny.pipes._private"},
		{"underscore function", "scrutiny.pipes.results._patch"},
		{"empty segment", "scrutiny.pipes..do_tallies"},
		{"trailing dot", "scrutiny.pipes.do."},
		{"embedded space", "scrutiny.pipes.do tallies"},
		{"embedded tab", "scrutiny.pipes.do\ttallies"},
		{"leading space", " scrutiny.pipes.do_tallies"},
		{"newline", "scrutiny.pipes.do_tallies\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.id)
			if !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("Validate(%q) = %v, want ErrInvalidIdentifier", tc.id, err)
			}
		})
	}
}
