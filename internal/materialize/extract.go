package materialize

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scrutiny/internal/logging"
)

// ExtractArchive unpacks the tar archive at path, plain or gzip-compressed,
// into a fresh temporary directory and returns that directory. The caller
// owns the directory and should register it with a cleanup guard right
// away. Corrupt or unreadable archives fail with ErrArchive.
func ExtractArchive(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrArchive, err)
		}
		defer gz.Close()
		src = gz
	}

	dir, err := os.MkdirTemp("", "scrutiny-tally-*")
	if err != nil {
		return "", fmt.Errorf("create workdir: %w", err)
	}
	if err := untar(src, dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	logging.New("materialize").Info("extracted archive",
		slog.String("archive", path), slog.String("workdir", dir))
	return dir, nil
}

func untar(src io.Reader, dest string) error {
	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchive, err)
		}

		target, err := securePath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("unpack dir: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("unpack dir: %w", err)
			}
			if err := writeEntry(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// Symlinks, devices and the rest have no place in a ballot archive.
			return fmt.Errorf("%w: unsupported entry %q", ErrArchive, hdr.Name)
		}
	}
}

func writeEntry(target string, tr *tar.Reader, perm os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("unpack file: %w", err)
	}
	if _, err := io.Copy(out, tr); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	return out.Close()
}

func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes the extraction dir", ErrArchive, name)
	}
	return target, nil
}
