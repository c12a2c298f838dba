package location

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// linkTree recreates the directory tree rooted at src under dst,
// hardlinking every regular file instead of copying its contents.
// Directory permissions and timestamps are preserved; symbolic links
// are recreated with the same link target.
func linkTree(src, dst string) error {
	type dirTimes struct {
		path string
		info fs.FileInfo
	}
	var dirs []dirTimes

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		outPath := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.Mkdir(outPath, info.Mode().Perm()); err != nil && !os.IsExist(err) {
				return err
			}
			dirs = append(dirs, dirTimes{path: outPath, info: info})
			return nil
		case info.Mode()&fs.ModeSymlink != 0:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(linkTarget, outPath)
		case info.Mode().IsRegular():
			return os.Link(path, outPath)
		default:
			// Sockets, devices and pipes have no place in a snapshot.
			return nil
		}
	})
	if err != nil {
		return errors.Wrapf(err, "hardlinking %s", src)
	}

	// Restore directory timestamps bottom-up so parent updates from
	// child creation do not clobber them.
	for i := len(dirs) - 1; i >= 0; i-- {
		mt := dirs[i].info.ModTime()
		if err := os.Chtimes(dirs[i].path, mt, mt); err != nil {
			return errors.Wrapf(err, "restoring times on %s", dirs[i].path)
		}
	}

	return nil
}
