// Package sitepub provides composite executors built from primitive commands.
package sitepub

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/releasekit/sitepub/errors"
	"github.com/releasekit/sitepub/internal/validation"
)

// registerComposites installs the executors shared by every backend. The
// recursive and read operations are expressed purely through primitive
// commands issued back through the dispatcher, so backends that agree on the
// primitives agree on these without any backend-specific code.
func registerComposites(d *Dispatcher, fsys fs.Filesystem) {
	d.Register(KindDownloadKeysRecursive, func(ctx context.Context, d *Dispatcher, cmd Command) (any, error) {
		return downloadKeysRecursive(ctx, d, fsys, cmd.(DownloadKeysRecursive))
	})
	d.Register(KindUploadKeysRecursive, func(ctx context.Context, d *Dispatcher, cmd Command) (any, error) {
		return uploadKeysRecursive(ctx, d, fsys, cmd.(UploadKeysRecursive))
	})
	d.Register(KindReadKey, func(ctx context.Context, d *Dispatcher, cmd Command) (any, error) {
		return readKey(ctx, d, fsys, cmd.(ReadKey))
	})
}

// downloadKeysRecursive lists every key under SourcePrefix and downloads the
// ones matching FilterExtensions, recreating the key hierarchy under
// TargetPath. Keys are processed in the sorted order ListKeys returns them in,
// and the first failing download stops the walk with earlier files left in
// place.
func downloadKeysRecursive(ctx context.Context, d *Dispatcher, fsys fs.Filesystem, cmd DownloadKeysRecursive) (any, error) {
	op := string(KindDownloadKeysRecursive)

	listed, err := d.Dispatch(ctx, ListKeys{
		Bucket: cmd.SourceBucket,
		Prefix: cmd.SourcePrefix + "/",
	})
	if err != nil {
		return nil, err
	}

	for _, suffix := range listed.([]string) {
		if !hasAnySuffix(suffix, cmd.FilterExtensions) {
			continue
		}

		target, err := validation.SecureRelativePath(op, cmd.TargetPath, suffix)
		if err != nil {
			return nil, err
		}

		sourceKey := joinKey(cmd.SourcePrefix, suffix)
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, errors.NewObjectError(op, cmd.SourceBucket, sourceKey, err)
		}

		if _, err := d.Dispatch(ctx, DownloadKey{
			SourceBucket: cmd.SourceBucket,
			SourceKey:    sourceKey,
			TargetPath:   target,
		}); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

// uploadKeysRecursive uploads the named files from under SourcePath to
// TargetKey, preserving their relative paths. Entries that are missing or not
// regular files are skipped. Content types are left unset, matching how the
// published artifacts were originally written.
func uploadKeysRecursive(ctx context.Context, d *Dispatcher, fsys fs.Filesystem, cmd UploadKeysRecursive) (any, error) {
	op := string(KindUploadKeysRecursive)

	for _, rel := range cmd.Files {
		source, err := validation.SecureRelativePath(op, cmd.SourcePath, rel)
		if err != nil {
			return nil, err
		}

		info, err := fsys.Stat(source)
		if err != nil || !info.Mode().IsRegular() {
			if d.logger != nil {
				d.logger.DebugContext(ctx, "skipping non-regular file", "path", source)
			}
			continue
		}

		if _, err := d.Dispatch(ctx, UploadKey{
			SourcePath:   cmd.SourcePath,
			TargetBucket: cmd.TargetBucket,
			TargetKey:    cmd.TargetKey + "/" + rel,
			File:         source,
		}); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

// readKey downloads a key into a scratch directory, returns its content as
// []byte, and removes the scratch files on every exit path.
func readKey(ctx context.Context, d *Dispatcher, fsys fs.Filesystem, cmd ReadKey) (any, error) {
	op := string(KindReadKey)

	dir, err := fsys.TempDir("", "sitepub")
	if err != nil {
		return nil, errors.NewObjectError(op, cmd.SourceBucket, cmd.SourceKey, err)
	}
	target := filepath.Join(dir, "object")
	defer func() {
		if exists, _ := fsys.Exists(target); exists {
			_ = fsys.Remove(target)
		}
		_ = fsys.Remove(dir)
	}()

	if _, err := d.Dispatch(ctx, DownloadKey{
		SourceBucket: cmd.SourceBucket,
		SourceKey:    cmd.SourceKey,
		TargetPath:   target,
	}); err != nil {
		return nil, err
	}

	content, err := fsys.ReadFile(target)
	if err != nil {
		return nil, errors.NewObjectError(op, cmd.SourceBucket, cmd.SourceKey, err)
	}

	return content, nil
}

// hasAnySuffix reports whether s ends with any of the given suffixes. An
// empty suffix list matches nothing.
func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// joinKey joins an object key prefix and suffix. Keys are plain strings, not
// filesystem paths: nothing is cleaned, and a prefix already ending in "/"
// concatenates directly.
func joinKey(prefix, suffix string) string {
	switch {
	case prefix == "":
		return suffix
	case strings.HasSuffix(prefix, "/"):
		return prefix + suffix
	default:
		return prefix + "/" + suffix
	}
}
