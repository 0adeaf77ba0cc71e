package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/japicc/pkg/archive"
	"github.com/platinummonkey/japicc/pkg/dump"
	"github.com/platinummonkey/japicc/pkg/errs"
	"github.com/platinummonkey/japicc/pkg/model"
)

func newDumpCommand() *Command {
	cmd := &Command{
		Name:        "dump",
		Description: "Produce a portable API dump from a single archive version",
		Flags:       flag.NewFlagSet("dump", flag.ExitOnError),
		Run:         runDump,
	}
	cmd.Flags.String("library", "", "Library name (required)")
	cmd.Flags.String("version", "", "Version label (required)")
	cmd.Flags.String("archive", "", "Path to the archive to dump (required)")
	cmd.Flags.String("out", "", "Output path for the dump (required)")
	return cmd
}

func runDump(args []string) error {
	flags := flag.NewFlagSet("dump", flag.ExitOnError)
	library := flags.String("library", "", "Library name (required)")
	version := flags.String("version", "", "Version label (required)")
	archivePath := flags.String("archive", "", "Path to the archive to dump (required)")
	outPath := flags.String("out", "", "Output path for the dump (required)")
	storePath := flags.String("store", "", "Optional sqlite dump-history store path")
	keepInternal := flags.Bool("keep-internal", false, "Disable the implicit internal-package filter")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *library == "" || *version == "" || *archivePath == "" || *outPath == "" {
		return &errs.AccessError{Path: "--library/--version/--archive/--out", Err: fmt.Errorf("all are required")}
	}

	bundle := model.NewBundle()
	scratch, err := os.MkdirTemp("", "japicc-dump-*")
	if err != nil {
		return &errs.AccessError{Path: scratch, Err: err}
	}
	defer os.RemoveAll(scratch)

	ingestor := archive.NewIngestor(
		archive.NewZipExtractor(nil),
		archive.NewJavapDisassembler("javap", nil, logrus.StandardLogger()),
		archive.FilterOptions{KeepInternals: *keepInternal},
	)
	if err := ingestor.Ingest(context.Background(), []string{*archivePath}, *library, scratch, bundle); err != nil {
		return &errs.AccessError{Path: *archivePath, Err: err}
	}

	rec := dump.FromBundle(bundle, *library, *version)

	out, err := os.Create(*outPath)
	if err != nil {
		return &errs.AccessError{Path: *outPath, Err: err}
	}
	defer out.Close()
	if err := dump.Write(out, rec); err != nil {
		return &errs.InternalError{Reason: err.Error()}
	}

	if *storePath != "" {
		db, err := sql.Open("sqlite3", *storePath)
		if err != nil {
			return &errs.AccessError{Path: *storePath, Err: err}
		}
		defer db.Close()
		store, err := dump.NewStore(db)
		if err != nil {
			return &errs.MissingModule{Module: "dump.Store"}
		}
		if _, err := store.Record(context.Background(), *library, *version, *outPath, time.Now().UTC()); err != nil {
			return &errs.InternalError{Reason: err.Error()}
		}
	}

	fmt.Printf("Wrote dump for %s %s to %s\n", *library, *version, *outPath)
	return nil
}
