//go:build !unix

package preflight

import "os"

// Without access(2) the best available check is opening the directory.
func accessReadWrite(path string) error {
	return accessRead(path)
}

func accessRead(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
