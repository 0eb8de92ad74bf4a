package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxCollisionAttempts bounds the " (n)" suffixes tried before giving up.
const MaxCollisionAttempts = 10000

// ErrNoFreeName is returned when every candidate name up to
// MaxCollisionAttempts already exists.
var ErrNoFreeName = errors.New("no free destination name")

// ErrIsDirectory reports a copy source that is a directory.
var ErrIsDirectory = errors.New("source is a directory")

// CopyOptions tunes CopyInto.
type CopyOptions struct {
	// Verify re-reads the written file and compares size and SHA-256.
	Verify bool
}

// CandidateName returns the n-th collision-free spelling of name:
// "photo.png", "photo (1).png", "photo (2).png", ...
func CandidateName(name string, n int) string {
	if n <= 0 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// Dotfiles such as ".env" keep the whole name as the stem.
		stem, ext = name, ""
	}
	return fmt.Sprintf("%s (%d)%s", stem, n, ext)
}

// CreateExclusive creates a new file named after name inside dir without
// ever replacing an existing entry. Collisions are resolved with
// CandidateName suffixes; the O_EXCL flag makes the check and the create a
// single step, so files written concurrently by other programs are never
// overwritten.
func CreateExclusive(dir, name string, mode os.FileMode) (*os.File, error) {
	for n := 0; n < MaxCollisionAttempts; n++ {
		target := filepath.Join(dir, CandidateName(name, n))
		file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
		if err == nil {
			return file, nil
		}
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%s in %s: %w", name, dir, ErrNoFreeName)
}

// CopyInto streams src into dir under src's base name, disambiguating the
// name when it is taken. It returns the path written. A failed copy removes
// its partial output.
func CopyInto(src, dir string, opts CopyOptions) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", src, ErrIsDirectory)
	}

	out, err := CreateExclusive(dir, filepath.Base(src), info.Mode().Perm()|0o200)
	if err != nil {
		return "", err
	}
	dst := out.Name()

	var srcHash hash.Hash
	var reader io.Reader = in
	if opts.Verify {
		srcHash = sha256.New()
		reader = io.TeeReader(in, srcHash)
	}

	written, err := io.Copy(out, reader)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}

	if opts.Verify {
		if err := verifyCopy(dst, info.Size(), written, srcHash.Sum(nil)); err != nil {
			_ = os.Remove(dst)
			return "", err
		}
	}
	return dst, nil
}

func verifyCopy(dst string, srcSize, written int64, srcSum []byte) error {
	if written != srcSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	dstSum, size, err := HashFile(dst)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if size != srcSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, destination %d bytes", srcSize, size)
	}
	if !bytes.Equal(srcSum, dstSum) {
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// HashFile returns the SHA-256 digest and size of the file at path.
func HashFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), n, nil
}
