package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/pebble/internal/store"
)

// Export writes every item to path as JSON Lines, one item per line in
// insertion order. The file is replaced atomically.
func Export(ctx context.Context, items *store.Table[Item], path string) (int, error) {
	all, err := items.SelectAll(ctx)
	if err != nil {
		return 0, err
	}
	lines := make([][]byte, len(all))
	for i, it := range all {
		b, err := json.Marshal(it)
		if err != nil {
			return 0, fmt.Errorf("encoding %s: %w", it.Name, err)
		}
		lines[i] = b
	}
	if err := writeJSONL(path, lines); err != nil {
		return 0, err
	}
	return len(all), nil
}

// Import inserts the items read from a JSON Lines file and returns how many
// were inserted. Blank and malformed lines are skipped. Items keep the id
// they were exported with, so importing into a table that already holds
// those ids fails.
func Import(ctx context.Context, items *store.Table[Item], path string) (int, error) {
	lines, err := readJSONL(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range lines {
		var it Item
		if err := json.Unmarshal(line, &it); err != nil {
			continue
		}
		if _, err := items.Insert(ctx, it); err != nil {
			return n, fmt.Errorf("importing %s: %w", it.Name, err)
		}
		n++
	}
	return n, nil
}

// readJSONL returns the non-empty lines of path that hold valid JSON.
func readJSONL(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return lines, nil
}

// writeJSONL writes lines to a temp file next to path, syncs it, and renames
// it over path.
func writeJSONL(path string, lines [][]byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
