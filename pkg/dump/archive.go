package dump

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/platinummonkey/japicc/pkg/errs"
)

// entryName is the fixed name of the single JSON payload inside the
// wrapping archive, regardless of which archive format is used.
const entryName = "dump.json"

// Write packs rec as JSON into a single-file archive written to w — a zip
// archive when runtime.GOOS is "windows", a tar.gz otherwise, matching the
// platform convention used for the tool's other artifacts.
func Write(w io.Writer, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return &errs.InvalidDump{Reason: "failed to encode dump: " + err.Error()}
	}
	if runtime.GOOS == "windows" {
		return writeZip(w, payload)
	}
	return writeTarGz(w, payload)
}

func writeZip(w io.Writer, payload []byte) error {
	zw := zip.NewWriter(w)
	f, err := zw.Create(entryName)
	if err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		return err
	}
	return zw.Close()
}

func writeTarGz(w io.Writer, payload []byte) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	hdr := &tar.Header{Name: entryName, Mode: 0o644, Size: int64(len(payload))}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(payload); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// Read unpacks and validates an archive produced by Write (accepting either
// format regardless of the current platform, so a dump taken on one OS can
// be read on another), then checks the dump's major format version against
// APIDumpMajorVersion before returning it.
func Read(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.InvalidDump{Reason: "failed to read archive: " + err.Error()}
	}

	payload, err := extractPayload(data)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, &errs.InvalidDump{Reason: "failed to decode dump JSON: " + err.Error()}
	}

	major, err := majorVersion(rec.APIDumpVersion)
	if err != nil {
		return nil, &errs.InvalidDump{Reason: "malformed api_dump_version: " + rec.APIDumpVersion}
	}
	if major != APIDumpMajorVersion {
		return nil, &errs.DumpVersion{Found: major, Supported: APIDumpMajorVersion}
	}
	return &rec, nil
}

func extractPayload(data []byte) ([]byte, error) {
	if zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		for _, f := range zr.File {
			if f.Name != entryName {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, &errs.InvalidDump{Reason: "failed to open zip entry: " + err.Error()}
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
		return nil, &errs.InvalidDump{Reason: "zip archive missing " + entryName}
	}

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &errs.InvalidDump{Reason: "not a recognized dump archive"}
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errs.InvalidDump{Reason: "corrupt tar.gz dump: " + err.Error()}
		}
		if hdr.Name == entryName {
			return io.ReadAll(tr)
		}
	}
	return nil, &errs.InvalidDump{Reason: "tar.gz archive missing " + entryName}
}

func majorVersion(v string) (int, error) {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty version")
	}
	return strconv.Atoi(parts[0])
}
