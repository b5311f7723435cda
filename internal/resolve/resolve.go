// Package resolve maps focus identifiers to icon images inside a mod.
//
// Lookup tries a fixed set of naming variants crossed with a fixed set of extensions,
// in priority order, under <mod-root>/<icons-path>. When nothing matches the default
// image is used, and a placeholder copy of it may be written under a derived name.
package resolve

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"focusgfx/internal/fsutil"
)

const (
	// DefaultImage is the stock "unknown goal" icon shipped with the game.
	DefaultImage = "gfx/interface/goals/goal_unknown.dds"
	// DefaultIconsPath is where mods conventionally keep focus icons.
	DefaultIconsPath = "gfx/interface/goals"
	// SpritePrefix prefixes sprite names and placeholder file names.
	SpritePrefix = "GFX_"
)

// Extensions lists the image extensions tried for every naming variant, highest priority first.
var Extensions = []string{".dds", ".tga", ".png"}

// Candidate is one (naming variant, extension) pair tried during lookup.
type Candidate struct {
	Pattern   string `json:"pattern" yaml:"pattern"`
	Extension string `json:"extension" yaml:"extension"`
}

// FileName returns the file name this candidate looks for.
func (c Candidate) FileName() string {
	return c.Pattern + c.Extension
}

// Patterns returns the naming variants for id in priority order.
func Patterns(id string) []string {
	lower := strings.ToLower(id)
	return []string{
		id,
		SpritePrefix + id,
		"goal_" + lower,
		SpritePrefix + "goal_" + lower,
	}
}

// Candidates returns every naming variant crossed with Extensions, in search order.
func Candidates(id string) []Candidate {
	patterns := Patterns(id)
	out := make([]Candidate, 0, len(patterns)*len(Extensions))
	for _, p := range patterns {
		for _, ext := range Extensions {
			out = append(out, Candidate{Pattern: p, Extension: ext})
		}
	}
	return out
}

// Options configures a Resolver.
type Options struct {
	ModRoot             string
	IconsPath           string
	GameRoot            string
	DefaultImage        string
	GeneratePlaceholder bool
	// DryRun plans placeholders without writing them.
	DryRun bool
}

// Resolution is the outcome of resolving one identifier.
type Resolution struct {
	ID string
	// Path is the texture path written to the output, relative to the mod root when found.
	Path  string
	Found bool
	// Match is the winning candidate; zero when not found.
	Match Candidate
	// FullPath is the on-disk file that matched or the placeholder written.
	FullPath string
	// Attempts lists the candidates checked in search order, ending at Match when found.
	Attempts  []Candidate
	SearchDir string

	Placeholder        bool
	PlaceholderPlanned bool
	PlaceholderReused  bool
	PlaceholderSource  string
}

// Resolver looks up icons for identifiers.
type Resolver struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Resolver. Empty IconsPath and DefaultImage take the package defaults.
func New(opts Options, logger *zap.Logger) *Resolver {
	if opts.IconsPath == "" {
		opts.IconsPath = DefaultIconsPath
	}
	if opts.DefaultImage == "" {
		opts.DefaultImage = DefaultImage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{opts: opts, logger: logger}
}

// SearchDir returns the directory icons are looked up in, or "" without a mod root.
func (r *Resolver) SearchDir() string {
	if r.opts.ModRoot == "" {
		return ""
	}
	return filepath.Join(r.opts.ModRoot, r.opts.IconsPath)
}

// DefaultImage returns the configured fallback texture path.
func (r *Resolver) DefaultImage() string {
	return r.opts.DefaultImage
}

// Resolve finds the icon for id. It only fails when ctx is done.
func (r *Resolver) Resolve(ctx context.Context, id string) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	res := Resolution{ID: id, Path: r.opts.DefaultImage}
	dir := r.SearchDir()
	if dir == "" {
		r.logger.Debug("no mod root, using default image", zap.String("id", id))
		return res, nil
	}
	res.SearchDir = dir
	cands := Candidates(id)
	res.Attempts = cands

	for i, c := range cands {
		full := filepath.Join(dir, c.FileName())
		if !fsutil.IsFile(full) {
			continue
		}
		res.Attempts = cands[:i+1]
		res.Found = true
		res.Match = c
		res.FullPath = full
		res.Path = r.relative(full)
		r.logger.Debug("found icon", zap.String("id", id), zap.String("path", res.Path))
		return res, nil
	}

	r.logger.Debug("no icon found", zap.String("id", id), zap.Int("attempts", len(res.Attempts)))
	if r.opts.GeneratePlaceholder {
		r.placeholder(&res)
	}
	return res, nil
}

// relative returns full relative to the mod root with forward slashes.
func (r *Resolver) relative(full string) string {
	rel, err := filepath.Rel(r.opts.ModRoot, full)
	if err != nil {
		rel = full
	}
	return filepath.ToSlash(rel)
}
