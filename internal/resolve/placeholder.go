package resolve

import (
	"path/filepath"

	"go.uber.org/zap"

	"focusgfx/internal/fsutil"
)

// LocateDefaultImage finds the file behind the default image path. It checks, in order:
// the path itself when absolute, the game root, the mod root, then the working directory.
func (r *Resolver) LocateDefaultImage() (string, bool) {
	p := r.opts.DefaultImage
	if filepath.IsAbs(p) && fsutil.IsFile(p) {
		return p, true
	}
	if r.opts.GameRoot != "" {
		if candidate := filepath.Join(r.opts.GameRoot, p); fsutil.IsFile(candidate) {
			return candidate, true
		}
	}
	if r.opts.ModRoot != "" {
		if candidate := filepath.Join(r.opts.ModRoot, p); fsutil.IsFile(candidate) {
			return candidate, true
		}
	}
	if fsutil.IsFile(p) {
		return p, true
	}
	return "", false
}

// PlaceholderName returns the file name a placeholder for id gets, given the default
// image's extension.
func PlaceholderName(id, ext string) string {
	if ext == "" {
		ext = ".dds"
	}
	return SpritePrefix + id + ext
}

// placeholder copies the default image into the search directory for an unresolved id.
// Failures are logged and leave res pointing at the default image.
func (r *Resolver) placeholder(res *Resolution) {
	src, ok := r.LocateDefaultImage()
	if !ok {
		r.logger.Warn("cannot find default image for placeholder",
			zap.String("id", res.ID),
			zap.String("default_image", r.opts.DefaultImage))
		return
	}

	dest := filepath.Join(res.SearchDir, PlaceholderName(res.ID, filepath.Ext(src)))
	res.PlaceholderSource = src

	if fsutil.Exists(dest) {
		// An existing file under the placeholder name is kept, never overwritten.
		res.Placeholder = true
		res.PlaceholderReused = true
		res.FullPath = dest
		res.Path = r.relative(dest)
		r.logger.Info("reusing existing placeholder", zap.String("id", res.ID), zap.String("path", res.Path))
		return
	}

	if r.opts.DryRun {
		res.PlaceholderPlanned = true
		res.FullPath = dest
		r.logger.Info("would create placeholder", zap.String("id", res.ID), zap.String("path", r.relative(dest)))
		return
	}

	if err := fsutil.CopyFile(src, dest); err != nil {
		r.logger.Warn("failed to create placeholder", zap.String("id", res.ID), zap.Error(err))
		return
	}
	res.Placeholder = true
	res.FullPath = dest
	res.Path = r.relative(dest)
	r.logger.Info("created placeholder", zap.String("id", res.ID), zap.String("path", res.Path))
}
