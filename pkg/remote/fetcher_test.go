package remote

import (
	"errors"
	"testing"
)

// The aws-sdk-go-v2 S3 client does not expose an easily-mockable interface,
// so these tests cover the pure logic (URI parsing, error classification)
// only; full round-trip behavior needs a real or containerized
// S3-compatible endpoint.

func TestParseLocationSplitsS3URI(t *testing.T) {
	bucket, key := ParseLocation("s3://widget-archives/v1/widget.jar")
	if bucket != "widget-archives" || key != "v1/widget.jar" {
		t.Errorf("ParseLocation() = (%q, %q)", bucket, key)
	}
}

func TestParseLocationBareKeyHasNoBucket(t *testing.T) {
	bucket, key := ParseLocation("v1/widget.jar")
	if bucket != "" || key != "v1/widget.jar" {
		t.Errorf("ParseLocation() = (%q, %q)", bucket, key)
	}
}

func TestParseLocationBucketOnlyURI(t *testing.T) {
	bucket, key := ParseLocation("s3://widget-archives")
	if bucket != "widget-archives" || key != "" {
		t.Errorf("ParseLocation() = (%q, %q)", bucket, key)
	}
}

func TestIsNotFoundErrorRecognizesAWSMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"not found", errors.New("NotFound: key does not exist"), true},
		{"no such key", errors.New("NoSuchKey: the specified key does not exist"), true},
		{"unrelated error", errors.New("AccessDenied"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFoundError(tt.err); got != tt.want {
				t.Errorf("isNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
