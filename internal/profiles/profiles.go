// Package profiles discovers launcher profiles that contain a mods folder.
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/blackwell-systems/modsnap/internal/archive"
	"github.com/blackwell-systems/modsnap/internal/config"
)

// AliasFileName is the launcher-side alias file kept in the profiles root.
const AliasFileName = "aliases.json"

// Profile is one launcher profile with a mods directory.
type Profile struct {
	FolderName  string
	DisplayName string
	ModsPath    string
	JarCount    int
}

// Dir returns the profile directory containing ModsPath.
func (p Profile) Dir() string {
	return filepath.Dir(p.ModsPath)
}

// DefaultRoot returns the Modrinth App profiles directory for the current
// platform.
func DefaultRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appdata, "ModrinthApp", "profiles"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "ModrinthApp", "profiles"), nil
	default:
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, "ModrinthApp", "profiles"), nil
	}
}

// Discover lists the sub-directories of root that contain a mods folder,
// sorted by display name. Display names come from aliases when one is
// defined for the folder. A missing root yields no profiles and no error.
func Discover(root string, aliases *config.AliasConfig) ([]Profile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	var list []Profile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modsPath := filepath.Join(root, entry.Name(), "mods")
		info, err := os.Stat(modsPath)
		if err != nil || !info.IsDir() {
			continue
		}

		list = append(list, Profile{
			FolderName:  entry.Name(),
			DisplayName: aliases.Lookup(entry.Name()),
			ModsPath:    modsPath,
			JarCount:    countArchives(modsPath),
		})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].DisplayName != list[j].DisplayName {
			return list[i].DisplayName < list[j].DisplayName
		}
		return list[i].FolderName < list[j].FolderName
	})
	return list, nil
}

// Find returns the profile whose folder or display name equals name.
func Find(list []Profile, name string) (Profile, bool) {
	for _, p := range list {
		if p.FolderName == name || p.DisplayName == name {
			return p, true
		}
	}
	return Profile{}, false
}

func countArchives(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && archive.IsArchiveName(e.Name()) {
			n++
		}
	}
	return n
}
