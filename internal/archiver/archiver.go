// Package archiver re-packages finished runs: each original input archive
// is bundled with the final results document into one compressed tar, so a
// single file carries both the raw ballots and what was computed from them.
package archiver

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"scrutiny/internal/logging"
	"scrutiny/internal/present"
	"scrutiny/internal/records"
)

// ResultsEntry is the name of the results document inside each output.
const ResultsEntry = "results.json"

const packParallelism = 4

// Repack writes one <name>.results.tar.gz per input archive into destDir,
// each holding the original archive bytes plus rec's results document.
// The record must carry results; inputs are packed concurrently.
func Repack(ctx context.Context, inputs []string, rec *records.Record, destDir string) error {
	if rec == nil || rec.Results == nil {
		return errors.New("repack: no results to pack")
	}

	var results bytes.Buffer
	if err := present.EncodeJSON(&results, rec.Results); err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("repack: %w", err)
	}

	log := logging.New("archive")
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(packParallelism)
	for _, input := range inputs {
		input := input // per-iteration copy: required for correctness on pre-1.22 toolchains
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out := filepath.Join(destDir, outputName(input))
			if err := packOne(input, results.Bytes(), out); err != nil {
				return err
			}
			log.Info("packed results", slog.String("input", input), slog.String("output", out))
			return nil
		})
	}
	return g.Wait()
}

// outputName derives the output file name from an input archive path,
// dropping a trailing archive suffix before appending .results.tar.gz.
func outputName(input string) string {
	base := filepath.Base(input)
	for _, suffix := range []string{".tar.gz", ".tgz", ".tar"} {
		if strings.HasSuffix(base, suffix) {
			base = strings.TrimSuffix(base, suffix)
			break
		}
	}
	return base + ".results.tar.gz"
}

func packOne(input string, results []byte, out string) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("repack: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("repack: %w", err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	fail := func(err error) error {
		tw.Close()
		gz.Close()
		f.Close()
		os.Remove(out)
		return fmt.Errorf("repack %s: %w", out, err)
	}

	if err := writeEntry(tw, filepath.Base(input), raw); err != nil {
		return fail(err)
	}
	if err := writeEntry(tw, ResultsEntry, results); err != nil {
		return fail(err)
	}

	if err := tw.Close(); err != nil {
		return fail(err)
	}
	if err := gz.Close(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	return nil
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}
