package http

import (
	"strconv"
	"strings"
)

// byteRange is a resolved, satisfiable slice [start, start+length) of an
// artifact.
type byteRange struct {
	start, length int64
}

func (b byteRange) end() int64 { return b.start + b.length - 1 }

// parseRange resolves a Range header against an artifact of size bytes. A
// nil range with ok=true means serve the whole body: no header, or one this
// server ignores (other units, several ranges, unparsable or reversed
// bounds). ok=false means the range is well formed but unsatisfiable.
func parseRange(header string, size int64) (r *byteRange, ok bool) {
	set, found := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !found || strings.Contains(set, ",") {
		return nil, true
	}
	first, last, found := strings.Cut(strings.TrimSpace(set), "-")
	if !found {
		return nil, true
	}

	if first == "" {
		suffix, err := strconv.ParseInt(last, 10, 64)
		if err != nil || suffix < 0 {
			return nil, true
		}
		if suffix == 0 || size == 0 {
			return nil, false
		}
		suffix = min(suffix, size)
		return &byteRange{start: size - suffix, length: suffix}, true
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return nil, true
	}
	end := size - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil || end < start {
			return nil, true
		}
	}
	if start >= size {
		return nil, false
	}
	end = min(end, size-1)
	return &byteRange{start: start, length: end - start + 1}, true
}
