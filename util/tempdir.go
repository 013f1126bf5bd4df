package util

import "io/ioutil"

// TempDir creates a new temporary directory under dir with the given
// prefix, returning its path.
func TempDir(dir, prefix string) (name string, err error) {
	return ioutil.TempDir(dir, prefix)
}
