package types

import (
	"fmt"
	"strings"
)

// ParseS3URI splits "s3://bucket/key" into bucket and key. The key may be empty
// when only a bucket (or bucket prefix) is given.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 uri without bucket: %s", uri)
	}
	return bucket, key, nil
}
