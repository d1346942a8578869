// Package tests provides access to the external test suites (test roms and
// single-step processor tests). They are downloaded on first use.
package tests

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

func decompress(zipFile, dest string) error {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%s: illegal file path", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
			continue
		}
		if err := extract(f, fpath); err != nil {
			return err
		}
	}
	return nil
}

func extract(f *zip.File, fpath string) error {
	if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func download(url string, w io.Writer) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func downloadTestRoms(dest string) error {
	const url = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`

	tmpf, err := os.CreateTemp("", "nes-test-roms-*-.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmpf.Name())

	if err := download(url, tmpf); err != nil {
		tmpf.Close()
		return err
	}
	if err := tmpf.Close(); err != nil {
		return err
	}

	if err := decompress(tmpf.Name(), dest); err != nil {
		return fmt.Errorf("failed to decompress test roms: %w", err)
	}
	return nil
}

// download all 256 (one per opcode) single-step test files into dest dir.
func downloadProcTests(dest string) error {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/nes6502/v1/%02x.json`

	tempdir, err := os.MkdirTemp("", "processor.tests.*")
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		g.Go(func() error {
			f, err := os.Create(filepath.Join(tempdir, fmt.Sprintf("%02x.json", opcode)))
			if err != nil {
				return err
			}
			if err := download(fmt.Sprintf(urlfmt, opcode), f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		return fmt.Errorf("failed to download all files: %w", err)
	}
	return os.Rename(tempdir, dest)
}

func testsDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Dir(b)
}

var (
	romsOnce sync.Once
	romsErr  error

	procOnce sync.Once
	procErr  error
)

// RomsPath returns the directory holding the nes-test-roms suite. The test
// is skipped in short mode, or when the suite can't be downloaded.
func RomsPath(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping test rom based test in short mode")
	}

	dir := filepath.Join(testsDir(), "nes-test-roms")
	romsOnce.Do(func() {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			romsErr = downloadTestRoms(testsDir())
		}
	})
	if romsErr != nil {
		tb.Skipf("test roms unavailable: %v", romsErr)
	}
	return dir
}

// ProcTestsPath returns the directory holding the single-step processor
// tests, one json file per opcode. The test is skipped in short mode, or when
// the files can't be downloaded.
func ProcTestsPath(tb testing.TB) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping processor tests in short mode")
	}

	dir := filepath.Join(testsDir(), "processor.tests")
	procOnce.Do(func() {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			procErr = downloadProcTests(dir)
		}
	})
	if procErr != nil {
		tb.Skipf("processor tests unavailable: %v", procErr)
	}
	return dir
}
