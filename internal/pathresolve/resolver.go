package pathresolve

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Failure reasons reported for paths that could not be found.
const (
	ReasonFileMissing      = "source not found: file missing"
	ReasonDirectoryMissing = "source not found: containing directory missing"
	ReasonEmpty            = "empty path"
)

// ResolvedPath is the result of resolving one raw path string.
type ResolvedPath struct {
	Raw          string
	Decoded      string
	Canonical    string
	Exists       bool
	DecodeFailed bool
	IsDir        bool
	Reason       string
}

// Resolver resolves raw path strings relative to a base directory.
type Resolver struct {
	base string
	home string
}

// New constructs a Resolver anchoring relative paths at base. An empty base
// falls back to the process working directory.
func New(base string) *Resolver {
	base = strings.TrimSpace(base)
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	home, _ := os.UserHomeDir()
	r := &Resolver{home: filepath.ToSlash(home)}
	r.base = r.normalize(filepath.ToSlash(base), "/")
	return r
}

// Base returns the normalized directory relative paths are anchored to.
func (r *Resolver) Base() string {
	return r.base
}

// Resolve resolves raw against the resolver's base directory.
func (r *Resolver) Resolve(raw string) ResolvedPath {
	return r.ResolveIn("", raw)
}

// ResolveIn resolves raw against base, which itself may be relative to the
// resolver's base directory. An empty base behaves like Resolve.
func (r *Resolver) ResolveIn(base, raw string) ResolvedPath {
	anchor := r.base
	if trimmed := strings.TrimSpace(base); trimmed != "" {
		anchor = r.normalize(decodeLenient(stripQuotes(trimmed)), r.base)
	}

	result := ResolvedPath{Raw: raw}
	input, isURL := stripURL(stripQuotes(strings.TrimSpace(raw)))
	if input == "" {
		result.Reason = ReasonEmpty
		return result
	}

	decoded := input
	var decodeErr error
	if isURL || strings.Contains(input, "%") {
		unescaped, err := url.PathUnescape(input)
		if err != nil {
			decodeErr = err
			result.DecodeFailed = true
		} else {
			decoded = unescaped
		}
	}
	result.Decoded = decoded

	candidates := r.candidates(anchor, input, decoded, isURL)
	primary := candidates[0]
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		result.Canonical = candidate
		result.Exists = true
		result.IsDir = info.IsDir()
		return result
	}

	result.Canonical = primary
	reason := ReasonFileMissing
	if info, err := os.Stat(path.Dir(primary)); err != nil || !info.IsDir() {
		reason = ReasonDirectoryMissing
	}
	if decodeErr != nil {
		reason = fmt.Sprintf("malformed percent-encoding (%v); %s", decodeErr, reason)
	}
	result.Reason = reason
	return result
}

// candidates lists the filesystem paths to try, most specific first. The
// first entry is always the normalized decoded path; the undecoded input
// comes last so names containing a literal "%XX" still resolve.
func (r *Resolver) candidates(anchor, input, decoded string, isURL bool) []string {
	var list []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		list = append(list, p)
	}

	add(r.normalize(decoded, anchor))

	if strings.Contains(input, "%") {
		undecoded := r.normalize(input, anchor)
		if name, err := url.PathUnescape(path.Base(undecoded)); err == nil {
			add(joinDir(path.Dir(undecoded), name))
		}
	}

	base := append([]string(nil), list...)
	for _, p := range base {
		add(norm.NFC.String(p))
		add(norm.NFD.String(p))
	}

	if strings.Contains(decoded, "%") {
		if twice, err := url.PathUnescape(decoded); err == nil && twice != decoded {
			p := r.normalize(twice, anchor)
			add(p)
			add(norm.NFC.String(p))
			add(norm.NFD.String(p))
		}
	}

	if !isURL && strings.Contains(input, "%") {
		p := r.normalize(input, anchor)
		add(p)
		add(norm.NFC.String(p))
		add(norm.NFD.String(p))
	}
	return list
}

// normalize converts p to a clean, absolute, forward-slash path. Relative
// paths are joined onto anchor; a leading "//" is kept for UNC shares.
func (r *Resolver) normalize(p, anchor string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return anchor
	}
	unc := strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "///")

	switch {
	case p == "~":
		p = r.home
	case strings.HasPrefix(p, "~/"):
		p = r.home + p[1:]
	}

	if !unc && !isAbs(p) {
		p = anchor + "/" + p
	}
	cleaned := path.Clean(p)
	if unc {
		cleaned = "/" + cleaned
	}
	return cleaned
}

func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return hasDriveLetter(p)
}

// hasDriveLetter reports whether p starts with a Windows drive like "C:/".
func hasDriveLetter(p string) bool {
	if len(p) < 3 || p[1] != ':' || p[2] != '/' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func joinDir(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// stripURL removes a file:// scheme and optional localhost authority.
func stripURL(s string) (string, bool) {
	if len(s) < len("file://") || !strings.EqualFold(s[:len("file://")], "file://") {
		return s, false
	}
	rest := s[len("file://"):]
	if len(rest) >= len("localhost/") && strings.EqualFold(rest[:len("localhost")], "localhost") && rest[len("localhost")] == '/' {
		rest = rest[len("localhost"):]
	}
	switch {
	case rest == "":
	case rest[0] == '/':
		// file:///C:/dir becomes C:/dir
		if hasDriveLetter(strings.ReplaceAll(rest[1:], `\`, "/")) {
			rest = rest[1:]
		}
	case !hasDriveLetter(strings.ReplaceAll(rest, `\`, "/")):
		// file://server/share names a UNC path.
		rest = "//" + rest
	}
	return rest, true
}

func decodeLenient(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
