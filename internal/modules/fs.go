package modules

import (
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/latch-lang/latch/internal/value"
)

func fsModule() *value.Dict {
	return dictOf(
		builtin("read", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.read")
			if err != nil {
				return nil, err
			}
			b, err := os.ReadFile(p)
			if err != nil {
				return nil, fileErr("fs.read: %s", err)
			}
			return value.String(b), nil
		}),
		builtin("write", 2, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.write")
			if err != nil {
				return nil, err
			}
			content, err := wantString(a, 1, "fs.write")
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
				return nil, fileErr("fs.write: %s", err)
			}
			return value.Null, nil
		}),
		builtin("append", 2, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.append")
			if err != nil {
				return nil, err
			}
			content, err := wantString(a, 1, "fs.append")
			if err != nil {
				return nil, err
			}
			f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fileErr("fs.append: %s", err)
			}
			defer f.Close()
			if _, err := f.WriteString(content); err != nil {
				return nil, fileErr("fs.append: %s", err)
			}
			return value.Null, nil
		}),
		builtin("exists", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.exists")
			if err != nil {
				return nil, err
			}
			_, statErr := os.Stat(p)
			return value.Bool(statErr == nil), nil
		}),
		builtin("remove", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.remove")
			if err != nil {
				return nil, err
			}
			if err := os.Remove(p); err != nil {
				return nil, fileErr("fs.remove: %s", err)
			}
			return value.Null, nil
		}),
		builtin("mkdir", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.mkdir")
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(p, 0o755); err != nil {
				return nil, fileErr("fs.mkdir: %s", err)
			}
			return value.Null, nil
		}),
		builtin("listdir", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.listdir")
			if err != nil {
				return nil, err
			}
			entries, err := os.ReadDir(p)
			if err != nil {
				return nil, fileErr("fs.listdir: %s", err)
			}
			items := make([]value.V, len(entries))
			for i, e := range entries {
				items[i] = value.String(e.Name())
			}
			return value.NewList(items), nil
		}),
		builtin("stat", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.stat")
			if err != nil {
				return nil, err
			}
			info, err := os.Stat(p)
			if err != nil {
				return nil, fileErr("fs.stat: %s", err)
			}
			d := value.NewDict()
			d.Set("size", value.Int(info.Size()))
			d.Set("is_dir", value.Bool(info.IsDir()))
			d.Set("mode", value.String(info.Mode().String()))
			d.Set("name", value.String(info.Name()))
			return d, nil
		}),
		// fs.mime is a supplemental reader beyond spec.md's fs.stat
		// (SPEC_FULL.md §4): mimetype sniffing of a file's content.
		builtin("mime", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.mime")
			if err != nil {
				return nil, err
			}
			mt, err := mimetype.DetectFile(p)
			if err != nil {
				return nil, fileErr("fs.mime: %s", err)
			}
			return value.String(mt.String()), nil
		}),
		builtin("basename", 1, func(a []value.V) (value.V, error) {
			p, err := wantString(a, 0, "fs.basename")
			if err != nil {
				return nil, err
			}
			return value.String(filepath.Base(p)), nil
		}),
	)
}
