package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/platinummonkey/japicc/pkg/dump"
	"github.com/platinummonkey/japicc/pkg/errs"
	"github.com/platinummonkey/japicc/pkg/observability"
)

func newWatchCommand() *Command {
	cmd := &Command{
		Name:        "watch",
		Description: "Re-run check on a cron schedule against the latest two archives in a directory",
		Flags:       flag.NewFlagSet("watch", flag.ExitOnError),
		Run:         runWatch,
	}
	cmd.Flags.String("library", "", "Library name (required)")
	cmd.Flags.String("dir", "", "Directory of archives, sorted lexically to pick the two latest (required)")
	cmd.Flags.String("schedule", "0 * * * *", "Cron schedule for the recurring check")
	cmd.Flags.String("store", "", "Sqlite dump-history store path (required)")
	return cmd
}

// runWatch schedules a recurring check re-run against the two
// lexicographically-latest archives in --dir, recording every run's
// outcome to the dump history store. It blocks until interrupted.
func runWatch(args []string) error {
	flags := flag.NewFlagSet("watch", flag.ExitOnError)
	library := flags.String("library", "", "Library name (required)")
	dir := flags.String("dir", "", "Directory of archives (required)")
	schedule := flags.String("schedule", "0 * * * *", "Cron schedule")
	storePath := flags.String("store", "", "Sqlite dump-history store path (required)")
	level := flags.String("level", "binary", "Compatibility level: binary or source")
	redisURL := flags.String("cache-url", "", "Optional redis:// URL for the result cache")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if *library == "" || *dir == "" || *storePath == "" {
		return &errs.AccessError{Path: "--library/--dir/--store", Err: fmt.Errorf("all are required")}
	}

	lvl, err := parseLevel(*level)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", *storePath)
	if err != nil {
		return &errs.AccessError{Path: *storePath, Err: err}
	}
	defer db.Close()
	store, err := dump.NewStore(db)
	if err != nil {
		return &errs.MissingModule{Module: "dump.Store"}
	}

	log := observability.NewLogger(observability.InfoLevel, os.Stderr).WithField("library", *library)

	runOnce := func() {
		oldPath, newPath, oldVer, newVer, err := latestTwoArchives(*dir)
		if err != nil {
			log.WithError(err).Warn("watch tick skipped: not enough archives")
			return
		}

		opts := checkOptions{
			library:    *library,
			oldPath:    oldPath,
			newPath:    newPath,
			oldVersion: oldVer,
			newVersion: newVer,
			level:      lvl.String(),
			redisURL:   *redisURL,
		}
		result, err := runComparison(context.Background(), log, opts, lvl)
		if err != nil {
			log.WithError(err).Warn("scheduled check failed")
			return
		}
		if _, err := store.Record(context.Background(), *library, newVer, newPath, time.Now().UTC()); err != nil {
			log.WithError(err).Warn("failed to record dump history")
		}
		if *redisURL != "" {
			cache, err := dump.NewResultCache(*redisURL, 24*time.Hour)
			if err != nil {
				log.WithError(err).Warn("result cache unavailable, skipping cache write")
			} else {
				summary := dump.CheckSummary{Compatible: result.Compatible, HighCount: result.High, MediumCount: result.Medium, LowCount: result.Low, CheckedAt: time.Now().UTC().Format(time.RFC3339)}
				if err := cache.Put(context.Background(), *library, oldVer, newVer, lvl.String(), summary); err != nil {
					log.WithError(err).Warn("failed to populate result cache")
				}
				cache.Close()
			}
		}
		log.WithField("compatible", result.Compatible).Info("scheduled check complete")
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, runOnce); err != nil {
		return &errs.InternalError{Reason: fmt.Sprintf("invalid cron schedule %q: %v", *schedule, err)}
	}
	c.Start()
	defer c.Stop()

	log.Info("watch started")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("watch stopping")
	return nil
}

// latestTwoArchives returns the two lexicographically-largest archive
// filenames in dir (by convention, archive names sort by version), using
// the filename without extension as the version label.
func latestTwoArchives(dir string) (oldPath, newPath, oldVersion, newVersion string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", "", "", err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) < 2 {
		return "", "", "", "", fmt.Errorf("need at least 2 archives in %s, found %d", dir, len(names))
	}
	sort.Strings(names)

	olderName := names[len(names)-2]
	newerName := names[len(names)-1]
	return filepath.Join(dir, olderName), filepath.Join(dir, newerName),
		versionLabel(olderName), versionLabel(newerName), nil
}

func versionLabel(filename string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))]
}
