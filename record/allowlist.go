package record

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
)

// LoadAllowlist streams a filter allowlist file (one sequence per
// line, blank lines and `#` comments skipped) with breader's chunked
// buffered reader, so a multi-million-entry barcode list does not
// block the graph build on a single-threaded scan.
func LoadAllowlist(path string) ([]string, error) {
	reader, err := breader.NewDefaultBufferedReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open allowlist %s", path)
	}
	var out []string
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrapf(chunk.Err, "read allowlist %s", path)
		}
		for _, d := range chunk.Data {
			s, ok := d.(string)
			if !ok || s == "" || strings.HasPrefix(s, "#") {
				continue
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// LoadMap streams a map file: tab-separated (key, value) pairs with
// `#` comments, via breader's custom-function buffered reader.
func LoadMap(path string) (map[string]string, error) {
	fn := func(line string) (interface{}, bool, error) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			return nil, false, nil
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, false, errors.Errorf("malformed map line: %q", line)
		}
		return [2]string{parts[0], parts[1]}, true, nil
	}
	reader, err := breader.NewBufferedReader(path, 2, 4, fn)
	if err != nil {
		return nil, errors.Wrapf(err, "open map %s", path)
	}
	out := make(map[string]string)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, errors.Wrapf(chunk.Err, "read map %s", path)
		}
		for _, d := range chunk.Data {
			kv := d.([2]string)
			out[kv[0]] = kv[1]
		}
	}
	return out, nil
}
