package gfx

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the format of the header's generation time.
const TimestampLayout = "2006-01-02 15:04:05"

// HeaderInfo is the metadata written in a versioned output header.
type HeaderInfo struct {
	Generator  string
	Time       time.Time
	SourceHash string
	SourcePath string
}

// Header renders the comment block that precedes versioned output.
func Header(h HeaderInfo) string {
	gen := h.Generator
	if gen == "" {
		gen = "focusgfx"
	}
	lines := []string{
		"# Generated by " + gen,
		"# Timestamp: " + h.Time.Format(TimestampLayout),
		"# Source hash: " + h.SourceHash,
		"# Source file: " + filepath.Base(h.SourcePath),
		"#",
		"",
	}
	return strings.Join(lines, "\n")
}

// SourceHash returns the hex MD5 of the source bytes.
func SourceHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
