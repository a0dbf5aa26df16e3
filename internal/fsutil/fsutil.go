// Package fsutil provides the filesystem queries the pipeline bases its
// staleness decisions on, plus discovery of compilable sources.
package fsutil

import (
	"os"
	"time"
)

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModTime returns the modification time of path and whether it exists.
func ModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Newer reports whether a was modified more recently than b. It is false
// when either path does not exist; absence is handled by the caller.
func Newer(a, b string) bool {
	aTime, ok := ModTime(a)
	if !ok {
		return false
	}
	bTime, ok := ModTime(b)
	if !ok {
		return false
	}
	return aTime.After(bTime)
}
