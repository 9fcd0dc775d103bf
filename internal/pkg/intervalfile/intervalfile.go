//Package intervalfile reads and writes interval sets from files and command line arguments.
package intervalfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/netsec-ethz/overlap/internal/pkg/cbor"
	"github.com/netsec-ethz/overlap/pkg/overlap"
)

//Format identifies how an interval set is stored in a file
type Format int

const (
	//JSON is an array of {"start", "end", "label"} objects with RFC3339 times
	JSON Format = iota + 1
	//CBOR is the encoding of package cbor
	CBOR
)

//FormatOf returns the format matching path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".cbor":
		return CBOR, nil
	default:
		return 0, fmt.Errorf("unknown interval file extension: %q", filepath.Ext(path))
	}
}

type jsonInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label,omitempty"`
}

//Load reads the interval set stored at path.
func Load(path string) ([]overlap.Interval, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		log.Error("Could not open interval file", "path", path, "error", err)
		return nil, err
	}
	var ranges []overlap.Interval
	switch format {
	case JSON:
		ranges, err = decodeJSON(data)
	case CBOR:
		ranges, err = cbor.Decode(bytes.NewReader(data))
	}
	if err != nil {
		log.Error("Could not decode interval file", "path", path, "error", err)
		return nil, err
	}
	log.Debug("Loaded interval file", "path", path, "intervals", len(ranges))
	return ranges, nil
}

//Store writes ranges to path in the format given by its extension.
func Store(path string, ranges []overlap.Interval) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	switch format {
	case JSON:
		err = encodeJSON(buf, ranges)
	case CBOR:
		err = cbor.Encode(buf, ranges)
	}
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, buf.Bytes(), 0644); err != nil {
		log.Error("Could not write interval file", "path", path, "error", err)
		return err
	}
	return nil
}

func decodeJSON(data []byte) ([]overlap.Interval, error) {
	var entries []jsonInterval
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	ranges := make([]overlap.Interval, 0, len(entries))
	for i, e := range entries {
		iv, err := overlap.New(e.Start, e.End)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		if e.Label != "" {
			iv = iv.WithData(e.Label)
		}
		ranges = append(ranges, iv)
	}
	return ranges, nil
}

func encodeJSON(buf *bytes.Buffer, ranges []overlap.Interval) error {
	entries := make([]jsonInterval, len(ranges))
	for i, r := range ranges {
		entries[i] = jsonInterval{Start: r.Start(), End: r.End()}
		if label, ok := r.Data().(string); ok {
			entries[i].Label = label
		}
	}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

//Parse converts a command line argument of the form START/END[=LABEL] into an interval. START and
//END are RFC3339 timestamps.
func Parse(arg string) (overlap.Interval, error) {
	bounds, label := arg, ""
	if i := strings.Index(arg, "="); i >= 0 {
		bounds, label = arg[:i], arg[i+1:]
	}
	parts := strings.Split(bounds, "/")
	if len(parts) != 2 {
		return overlap.Interval{}, fmt.Errorf("malformed interval %q, expected START/END[=LABEL]", arg)
	}
	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("malformed start of %q: %v", arg, err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("malformed end of %q: %v", arg, err)
	}
	iv, err := overlap.New(start, end)
	if err != nil {
		return overlap.Interval{}, fmt.Errorf("interval %q: %w", arg, err)
	}
	if label != "" {
		iv = iv.WithData(label)
	}
	return iv, nil
}

//ParseAll converts every argument with Parse.
func ParseAll(args []string) ([]overlap.Interval, error) {
	ranges := make([]overlap.Interval, 0, len(args))
	for _, arg := range args {
		iv, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, iv)
	}
	return ranges, nil
}
