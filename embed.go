package visitordash

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
)

// EmbeddedAssets contains the static assets served under /public/:
// dashboard.js and dashboard.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// assetVersion changes whenever an embedded asset changes, so /public/ can be
// cached as immutable.
var assetVersion = hashAssets()

func embeddedAssets() fs.FS {
	sub, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		panic(err)
	}
	return sub
}

func hashAssets() string {
	h := sha256.New()
	_ = fs.WalkDir(EmbeddedAssets, "embedded", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := EmbeddedAssets.ReadFile(path)
		if err != nil {
			return err
		}
		h.Write([]byte(path))
		h.Write(b)
		return nil
	})
	return hex.EncodeToString(h.Sum(nil))[:12]
}
