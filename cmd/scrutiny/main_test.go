package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Repeatable flags accumulate across Execute calls in one process.
	runFlags.tallies = nil
	runFlags.config = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPipesCommand(t *testing.T) {
	out, err := execute(t, "pipes")
	if err != nil {
		t.Fatalf("pipes command failed: %v", err)
	}
	for _, want := range []string{
		"scrutiny.pipes.results.do_tallies",
		"scrutiny.pipes.sort.sort_non_iterative",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stage listing missing %s:\n%s", want, out)
		}
	}
}

func TestRunCommand(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "ballots.tar.gz")
	writeArchive(t, archive)

	out, err := execute(t, "run", "-t", archive, "-o", "json")
	if err != nil {
		t.Fatalf("run command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"questions"`) {
		t.Errorf("no results rendered:\n%s", out)
	}
}

func TestRunCommandRejectsBothInputs(t *testing.T) {
	_, err := execute(t, "run", "-t", "a.tar.gz", "-c", "config.json")
	if err == nil {
		t.Fatal("run with both a tally and a config should fail")
	}
}

func writeArchive(t *testing.T, path string) {
	t.Helper()
	entries := map[string]string{
		"questions_json": `[{
			"title": "Chair",
			"tally_type": "plurality-at-large",
			"num_winners": 1,
			"max": 1,
			"min": 0,
			"answers": [
				{"id": 0, "text": "Ada", "category": ""},
				{"id": 1, "text": "Grace", "category": ""}
			]
		}]`,
		"0-aaaa/plaintexts_json": "[0]\n[1]\n[0]\n",
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
