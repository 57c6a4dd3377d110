// Package snapshot writes periodic CSV dumps of the raw person payloads the
// sync loop fetched, so there is an offline copy of the registration data
// when the API is down. Nested objects are flattened with dot-separated keys
// and scalar lists joined with semicolons.
package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
)

// Writer persists person payloads to a fixed CSV path.
type Writer struct {
	// Path is the destination file, overwritten on every snapshot.
	Path string
}

// New creates a snapshot writer for the given path.
func New(path string) *Writer {
	return &Writer{Path: path}
}

// Write flattens the payloads and writes them as one CSV file. The header is
// the sorted union of all flattened keys; missing fields stay empty. The
// file is written to a temp name first and renamed into place so readers
// never see a half-written snapshot.
func (w *Writer) Write(persons []map[string]any) error {
	flat := make([]map[string]string, 0, len(persons))
	keySet := make(map[string]bool)
	for _, p := range persons {
		f := Flatten(p)
		for k := range f {
			keySet[k] = true
		}
		flat = append(flat, f)
	}

	fields := make([]string, 0, len(keySet))
	for k := range keySet {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.Path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", w.Path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(fields); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", w.Path, err)
	}
	record := make([]string, len(fields))
	for _, f := range flat {
		for i, key := range fields {
			record[i] = f[key]
		}
		if err := cw.Write(record); err != nil {
			_ = tmp.Close()
			return errors.WrapIO("write", w.Path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("flush", w.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", w.Path, err)
	}

	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return errors.WrapIO("rename", w.Path, err)
	}

	logging.Info().Str("path", w.Path).Int("persons", len(persons)).Msg("Snapshot written")
	return nil
}

// Flatten converts a nested payload into a flat string map. Nested objects
// get dot-separated keys; lists of scalars are joined with ";"; lists of
// objects are JSON-encoded per element and joined with ";".
func Flatten(obj map[string]any) map[string]string {
	out := make(map[string]string)
	flattenInto(out, obj, "")
	return out
}

func flattenInto(out map[string]string, obj map[string]any, prefix string) {
	for key, val := range obj {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch v := val.(type) {
		case map[string]any:
			flattenInto(out, v, name)
		case []any:
			out[name] = joinList(v)
		default:
			out[name] = scalarString(v)
		}
	}
}

func joinList(list []any) string {
	result := ""
	for i, v := range list {
		if i > 0 {
			result += ";"
		}
		switch v.(type) {
		case map[string]any, []any:
			encoded, err := json.Marshal(v)
			if err != nil {
				result += fmt.Sprintf("%v", v)
				continue
			}
			result += string(encoded)
		default:
			result += scalarString(v)
		}
	}
	return result
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}
