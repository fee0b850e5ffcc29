package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"prism/internal/config"
	"prism/internal/corpus"
	"prism/internal/keystore"
	"prism/internal/protocol"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckKeyFiles verifies that every configured database has a readable key file.
func CheckKeyFiles(layout corpus.Layout, databases []string) Result {
	const name = "Key files"

	var missing, unreadable []string
	for _, db := range databases {
		path := layout.KeyPath(db)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, db)
			continue
		}
		if err := unix.Access(path, unix.R_OK); err != nil {
			unreadable = append(unreadable, db)
		}
	}

	switch {
	case len(missing) > 0:
		return Result{Name: name, Detail: fmt.Sprintf("missing: %s", strings.Join(missing, ", "))}
	case len(unreadable) > 0:
		return Result{Name: name, Detail: fmt.Sprintf("unreadable: %s", strings.Join(unreadable, ", "))}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d of %d databases", len(databases), len(databases))}
	}
}

// CheckTrialLists counts the SRE10 conditions whose enroll list, test list,
// and keymask are all present. At least one complete condition passes.
func CheckTrialLists(layout corpus.Layout) Result {
	const name = "Trial lists"

	total, complete := 0, 0
	for condition := protocol.MinCondition; condition <= protocol.MaxCondition; condition++ {
		for _, gender := range protocol.Genders {
			total++
			paths := []string{
				layout.TrialIDsPath(condition, gender, corpus.SideEnroll),
				layout.TrialIDsPath(condition, gender, corpus.SideTest),
				layout.KeyMaskPath(condition, gender),
			}
			if allExist(paths) {
				complete++
			}
		}
	}
	detail := fmt.Sprintf("%d of %d SRE10 conditions under %s", complete, total, layout.TrialDir())
	return Result{Name: name, Passed: complete > 0, Detail: detail}
}

func allExist(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// CheckKeyCache reports whether the SQLite key cache is populated.
func CheckKeyCache(ctx context.Context, cfg *config.Config) Result {
	const name = "Key cache"

	store, err := keystore.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	run, err := store.LastImport(ctx)
	if errors.Is(err, keystore.ErrNotFound) {
		return Result{Name: name, Detail: "empty (run 'prism keys import')"}
	}
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%d records, imported %s", run.Records, run.FinishedAt.Format("2006-01-02 15:04")),
	}
}
