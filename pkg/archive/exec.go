package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ZipExtractor extracts .class entries from a jar/war/ear (a zip archive)
// into destDir, preserving internal directory structure.
type ZipExtractor struct {
	Log *logrus.Logger
}

// NewZipExtractor returns a ZipExtractor; a nil logger falls back to the
// package-level standard logger.
func NewZipExtractor(log *logrus.Logger) *ZipExtractor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ZipExtractor{Log: log}
}

func (z *ZipExtractor) Extract(ctx context.Context, archivePath string, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".class") {
			continue
		}
		destPath := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, err
		}
		if err := extractOne(f, destPath); err != nil {
			z.Log.WithError(err).WithField("entry", f.Name).Warn("archive: failed to extract class entry")
			continue
		}
		out = append(out, destPath)
	}
	return out, nil
}

func extractOne(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	w, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = io.Copy(w, rc)
	return err
}

// JavapDisassembler shells out to a javap-equivalent binary for a chunk of
// class files and returns its combined stdout as the disassembly text.
type JavapDisassembler struct {
	BinaryPath string
	ExtraArgs  []string
	Log        *logrus.Logger
}

// NewJavapDisassembler returns a JavapDisassembler invoking binaryPath (an
// empty binaryPath defaults to "javap" on PATH).
func NewJavapDisassembler(binaryPath string, extraArgs []string, log *logrus.Logger) *JavapDisassembler {
	if binaryPath == "" {
		binaryPath = "javap"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JavapDisassembler{BinaryPath: binaryPath, ExtraArgs: extraArgs, Log: log}
}

func (j *JavapDisassembler) Disassemble(ctx context.Context, classFiles []string) (string, error) {
	args := append([]string{"-c", "-p", "-v"}, j.ExtraArgs...)
	args = append(args, classFiles...)

	cmd := exec.CommandContext(ctx, j.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		j.Log.WithError(err).WithField("stderr", stderr.String()).Error("archive: disassembler invocation failed")
		if _, lookErr := exec.LookPath(j.BinaryPath); lookErr != nil {
			return "", ErrToolNotFound
		}
		return "", err
	}
	return stdout.String(), nil
}
