// Package roadmap draws learning roadmaps as PNG images.
package roadmap

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth  = 800
	topMargin   = 50
	leftMargin  = 50
	lineSpacing = 50
	fontSize    = 16
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Renderer is safe for concurrent use. Truetype faces are not, so each Render builds
// its own face from the shared parsed font.
type Renderer struct {
	dir  string
	font *truetype.Font
}

// NewRenderer writes images into dir. A blank fontPath selects the built-in bitmap face.
func NewRenderer(dir, fontPath string) (*Renderer, error) {
	var parsed *truetype.Font
	if fontPath != "" {
		f, err := loadFont(fontPath)
		if err != nil {
			return nil, err
		}
		parsed = f
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create roadmap image dir: %w", err)
	}
	return &Renderer{dir: dir, font: parsed}, nil
}

func (r *Renderer) newFace() font.Face {
	if r.font == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (r *Renderer) Dir() string {
	return r.dir
}

// Render draws one "Step i: ..." line per step and returns the written file's path.
// A later render for the same uid overwrites the earlier image.
func (r *Renderer) Render(uid string, steps []string) (string, error) {
	height := 100 + lineSpacing*len(steps)
	dc := gg.NewContext(imageWidth, height)

	dc.SetColor(color.White)
	dc.Clear()

	face := r.newFace()
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	y := float64(topMargin)
	for i, step := range steps {
		dc.DrawString(fmt.Sprintf("Step %d: %s", i+1, step), leftMargin, y)
		y += lineSpacing
	}

	path := filepath.Join(r.dir, FileName(uid))
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to save roadmap image: %w", err)
	}
	return path, nil
}

// FileName maps a uid onto a file name that cannot escape the image directory. The
// hash suffix keeps uids that sanitise alike (a.b, a/b, a_b) apart.
func FileName(uid string) string {
	safe := unsafeChars.ReplaceAllString(uid, "_")
	if safe == "" || safe == "_" {
		safe = "anonymous"
	}
	sum := sha256.Sum256([]byte(uid))
	return "roadmap_" + safe + "_" + hex.EncodeToString(sum[:4]) + ".png"
}

func loadFont(fontPath string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return parsedFont, nil
}
