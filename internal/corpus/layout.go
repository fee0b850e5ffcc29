package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Databases lists the constituent PRISM databases in load order.
var Databases = []string{
	"FISHATD5", "FISHE1",
	"MIX04", "MIX05", "MIX06", "MIX08", "MIX10",
	"SWCELLP1", "SWCELLP2", "SWPH2", "SWPH3",
}

// Trial list sides.
const (
	SideEnroll = "trn"
	SideTest   = "tst"
)

// Layout resolves files below a PRISM data directory.
type Layout struct {
	Root string
}

// KeyPath returns the key file for a database.
func (l Layout) KeyPath(database string) string {
	return filepath.Join(l.Root, "KEYS", database+".key")
}

// TrialDir returns the directory holding the SRE10 condition lists.
func (l Layout) TrialDir() string {
	return filepath.Join(l.Root, "TRIALS", "sre10.conditions")
}

// TrialIDsPath returns the id list for one side of an SRE10 condition.
func (l Layout) TrialIDsPath(condition int, gender, side string) string {
	return filepath.Join(l.TrialDir(), fmt.Sprintf("sre10c%02d,%s.%sids", condition, gender, side))
}

// KeyMaskPath returns the keymask matrix for an SRE10 condition.
func (l Layout) KeyMaskPath(condition int, gender string) string {
	return filepath.Join(l.TrialDir(), fmt.Sprintf("sre10c%02d,%s.keymask", condition, gender))
}

// Check verifies that a key file exists for every database.
func (l Layout) Check(databases []string) error {
	if strings.TrimSpace(l.Root) == "" {
		return errors.New("corpus data directory is not set")
	}
	info, err := os.Stat(l.Root)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", l.Root)
	}

	var missing []string
	for _, db := range databases {
		if _, err := os.Stat(l.KeyPath(db)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, db)
				continue
			}
			return fmt.Errorf("stat key file for %s: %w", db, err)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing key files for %s under %s", strings.Join(missing, ", "), filepath.Join(l.Root, "KEYS"))
	}
	return nil
}

// IsKnownDatabase reports whether name is one of Databases.
func IsKnownDatabase(name string) bool {
	for _, db := range Databases {
		if strings.EqualFold(db, name) {
			return true
		}
	}
	return false
}
