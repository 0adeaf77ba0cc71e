// Package cli implements the japicc command-line surface: a small
// Command tree (check, dump, watch) delegating all analysis to pkg/archive,
// pkg/diff, pkg/classify, and pkg/dump. Parsing individual
// flag values is a thin wrapper around the standard library's flag package;
// this package's job is the command surface (names, flags, exit codes), not
// a bespoke argument-parsing engine.
//
// # Commands
//
// check: compare two archive versions and report problems found.
//
//	japicc check \
//		--library commons-io \
//		--old commons-io-1.0.0.jar --old-version 1.0.0 \
//		--new commons-io-2.0.0.jar --new-version 2.0.0 \
//		--level binary --format text
//
// dump: produce a portable API dump from a single archive version.
//
//	japicc dump --library commons-io --version 1.0.0 --archive commons-io-1.0.0.jar --out commons-io-1.0.0.dump
//
// watch: re-run check on a cron schedule against a directory of archives,
// recording results to the dump history store and result cache.
//
//	japicc watch --library commons-io --dir ./archives --schedule "0 * * * *"
package cli
