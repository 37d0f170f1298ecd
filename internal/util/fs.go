package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindProjectRoot walks up from start to the first directory holding marker.
// ok is false when no ancestor has it.
func FindProjectRoot(start, marker string) (root string, ok bool, err error) {
	start, err = filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	cur := start
	for {
		if IsFile(filepath.Join(cur, marker)) {
			return cur, true, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return start, false, nil
		}
		cur = parent
	}
}

// ListDirsContaining returns the sorted names of the direct sub-directories of dir
// that hold a regular file called marker.
func ListDirsContaining(dir, marker string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, e := range entries {
		sub := filepath.Join(dir, e.Name())
		if !IsDir(sub) {
			continue
		}
		if IsFile(filepath.Join(sub, marker)) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func WalkFind(dir string, match func(path string, d fs.DirEntry) bool) (string, error) {
	var found string
	errStop := errors.New("stop")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if match(path, d) {
			found = path
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return "", err
	}
	return found, nil
}
