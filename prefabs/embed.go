package prefabs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var PrefabsFS embed.FS

// Load returns the disk copy of a prefab if there is one, else the embedded
// copy.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// LoadLayered decodes the embedded prefab into out, then the disk copy on
// top of it, so a disk file only needs the keys it changes.
func LoadLayered(name string, out any) error {
	clean := cleanPrefabPath(name)
	base, err := PrefabsFS.ReadFile(clean)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	if err := yaml.Unmarshal(base, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}

	overlay, err := os.ReadFile(diskPrefabPath(clean))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", diskPrefabPath(clean), err)
	}
	if err := yaml.Unmarshal(overlay, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", diskPrefabPath(clean), err)
	}
	return nil
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
