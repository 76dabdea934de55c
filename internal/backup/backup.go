// Package backup makes timestamped copies of the item store file and reads
// them back as read-only snapshots. Snapshots are plain file copies; the
// live store never reads from them.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"almacen/internal/model"
)

const (
	autoPrefix   = "Backup_Auto_"
	manualPrefix = "Backup_MANUAL_"
	stampLayout  = "2006-01-02_15-04-05"
)

// AutoSnapshot copies the store file into dir at startup. It is a
// fire-and-forget side effect: when the store file does not exist the
// snapshot is skipped, and failures only surface as the returned error for
// the caller to log.
func AutoSnapshot(storePath, dir string, now time.Time) error {
	if _, err := os.Stat(storePath); err != nil {
		return nil
	}
	_, err := snapshot(storePath, dir, autoPrefix, now)
	return err
}

// ManualSnapshot copies the store file into dir on demand and returns the
// snapshot file name. Unlike AutoSnapshot, failures here are meant to be
// shown to the user.
func ManualSnapshot(storePath, dir string, now time.Time) (string, error) {
	return snapshot(storePath, dir, manualPrefix, now)
}

func snapshot(storePath, dir, prefix string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	name := prefix + now.Format(stampLayout) + ".json"
	if err := copyFile(storePath, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("copying store file: %w", err)
	}
	return name, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// List returns the snapshot file names in dir, newest first. A missing
// directory means no backups yet, not an error.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	// The timestamp in the name sorts lexicographically.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Read parses one snapshot into a read-only item view sorted by numeric
// id. Only bare file names inside dir are accepted.
func Read(dir, name string) ([]*model.Item, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid backup name %q", name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	var records map[string]*model.Item
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing backup: %w", err)
	}

	items := make([]*model.Item, 0, len(records))
	for id, item := range records {
		item.ID = id
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool {
		return numericID(items[a].ID) < numericID(items[b].ID)
	})
	return items, nil
}

func numericID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}
