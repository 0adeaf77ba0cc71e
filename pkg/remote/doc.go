// Package remote fetches archive files (jars, zips) from S3-compatible
// object storage into a local scratch directory, so the ingestion pipeline
// in pkg/archive can work from a plain filesystem path regardless of where
// the archive actually lives.
package remote
