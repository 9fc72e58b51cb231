package workload

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseLengths reads one task length per line. Blank lines, lines starting
// with marker and lines that are not numbers are skipped. Values are
// truncated to integers and kept only when positive; anything above MaxInt32
// is clamped. Lines of any length are read. Reading stops after limit values
// unless limit <= 0.
func ParseLengths(r io.Reader, marker string, limit int) ([]int64, error) {
	var ls []int64

	br := bufio.NewReader(r)
	for {
		if limit > 0 && len(ls) >= limit {
			break
		}

		line, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return ls, errors.Wrap(rerr, "reading lengths")
		}

		if v, ok := parseLength(line, marker); ok {
			ls = append(ls, v)
		}
		if rerr == io.EOF {
			break
		}
	}
	return ls, nil
}

func parseLength(line, marker string) (int64, bool) {
	text := strings.TrimSpace(line)
	if text == "" || (marker != "" && strings.HasPrefix(text, marker)) {
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	v := int64(math.Min(f, math.MaxInt32))
	if v <= 0 {
		return 0, false
	}
	return v, true
}
