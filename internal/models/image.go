package models

import "time"

// UntaggedRef is the reference the engine reports for images with no tags.
const UntaggedRef = "<none>:<none>"

// ImageInfo represents a local container image
type ImageInfo struct {
	ID      string // content hash without the sha256: prefix
	Tags    []string
	SizeMB  float64
	Created time.Time
	AgeDays float64
}

// IsDangling reports whether the image carries only the untagged sentinel.
func (i ImageInfo) IsDangling() bool {
	return len(i.Tags) == 1 && i.Tags[0] == UntaggedRef
}
