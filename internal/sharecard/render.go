// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sharecard draws the 1200x630 social preview image for a
// politician and builds the share links that reference it. Drawing never
// fails on bad input: missing parameters become placeholders and an
// unreachable photo becomes an initials tile.
package sharecard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"unicode"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"polidex/internal/cache"
	"polidex/internal/imageproxy"
)

// Card dimensions.
const (
	Width  = 1200
	Height = 630
)

const (
	margin    = 72
	photoSize = 360
	qrSize    = 168
	textLeft  = margin + photoSize + 64
	textRight = Width - margin
)

// maxPhotoPixels bounds the decoded size of a photo. Headers are checked
// before decoding, so a small file cannot declare a huge canvas.
const maxPhotoPixels = 4096 * 4096

var (
	colorBackground = color.RGBA{R: 0x12, G: 0x1a, B: 0x2e, A: 0xff}
	colorAccent     = color.RGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}
	colorText       = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	colorMuted      = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
	colorTile       = color.RGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
)

// PhotoFetcher downloads a photo through the allow-listed relay.
type PhotoFetcher interface {
	Fetch(ctx context.Context, raw string) (*imageproxy.Image, error)
}

// Cache stores rendered PNGs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, png []byte)
}

// Renderer draws share cards.
type Renderer struct {
	photos    PhotoFetcher
	cache     Cache
	regular   *opentype.Font
	bold      *opentype.Font
	maxPixels int
}

// NewRenderer parses the embedded fonts. photos and cache may be nil.
func NewRenderer(photos PhotoFetcher, c Cache) (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{
		photos:    photos,
		cache:     c,
		regular:   regular,
		bold:      bold,
		maxPixels: maxPhotoPixels,
	}, nil
}

// Render draws p as a PNG. The QR code encodes canonicalURL.
func (r *Renderer) Render(ctx context.Context, p Params, canonicalURL string) ([]byte, error) {
	key := cache.HashKey(p.Name, p.Party, p.State, p.StatKey, p.StatValue, p.StatSuffix, p.Photo, canonicalURL)
	if r.cache != nil {
		if data, ok := r.cache.Get(ctx, key); ok {
			return data, nil
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, Width, 12), image.NewUniform(colorAccent), image.Point{}, draw.Src)

	photoRect := image.Rect(margin, (Height-photoSize)/2, margin+photoSize, (Height+photoSize)/2)
	if photo := r.loadPhoto(ctx, p.Photo); photo != nil {
		drawCover(img, photoRect, photo)
	} else if err := r.drawInitials(img, photoRect, p.Name); err != nil {
		return nil, err
	}

	if err := r.drawText(img, p); err != nil {
		return nil, err
	}

	if canonicalURL != "" {
		if err := drawQR(img, canonicalURL); err != nil {
			slog.Warn("share card qr failed", "url", canonicalURL, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	data := buf.Bytes()
	if r.cache != nil {
		r.cache.Set(ctx, key, data)
	}
	return data, nil
}

// loadPhoto returns nil when the photo is absent or cannot be used.
func (r *Renderer) loadPhoto(ctx context.Context, raw string) image.Image {
	if raw == "" || r.photos == nil {
		return nil
	}
	fetched, err := r.photos.Fetch(ctx, raw)
	if err != nil {
		slog.Warn("share card photo fetch failed", "photo", raw, "error", err)
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(fetched.Data))
	if err != nil {
		slog.Warn("share card photo decode failed", "photo", raw, "error", err)
		return nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > r.maxPixels/cfg.Height {
		slog.Warn("share card photo too large", "photo", raw, "width", cfg.Width, "height", cfg.Height)
		return nil
	}
	decoded, _, err := image.Decode(bytes.NewReader(fetched.Data))
	if err != nil {
		slog.Warn("share card photo decode failed", "photo", raw, "error", err)
		return nil
	}
	return decoded
}

// drawCover scales the centred square of src to fill dst.
func drawCover(dst draw.Image, rect image.Rectangle, src image.Image) {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2))
	draw.CatmullRom.Scale(dst, rect, src, crop, draw.Src, nil)
}

func (r *Renderer) drawInitials(dst draw.Image, rect image.Rectangle, name string) error {
	draw.Draw(dst, rect, image.NewUniform(colorTile), image.Point{}, draw.Src)

	face, err := r.face(r.bold, 140)
	if err != nil {
		return err
	}
	defer face.Close()

	text := Initials(name)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(colorText), Face: face}
	w := d.MeasureString(text).Ceil()
	m := face.Metrics()
	h := (m.Ascent + m.Descent).Ceil()
	d.Dot = fixed.P(rect.Min.X+(rect.Dx()-w)/2, rect.Min.Y+(rect.Dy()-h)/2+m.Ascent.Ceil())
	d.DrawString(text)
	return nil
}

func (r *Renderer) drawText(dst draw.Image, p Params) error {
	lines := []struct {
		font  *opentype.Font
		size  float64
		color color.Color
		text  string
		y     int
	}{
		{r.bold, 60, colorText, p.Name, 200},
		{r.regular, 34, colorAccent, p.Party, 262},
		{r.regular, 30, colorMuted, p.State, 310},
		{r.regular, 26, colorMuted, strings.ToUpper(p.StatKey), 420},
		{r.bold, 72, colorText, p.StatLine(), 500},
	}

	maxWidth := textRight - textLeft - qrSize - 24
	for _, l := range lines {
		if l.text == "" {
			continue
		}
		face, err := r.face(l.font, l.size)
		if err != nil {
			return err
		}
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(l.color), Face: face, Dot: fixed.P(textLeft, l.y)}
		d.DrawString(fit(d, l.text, maxWidth))
		face.Close()
	}
	return nil
}

func (r *Renderer) face(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}

func drawQR(dst draw.Image, content string) error {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return err
	}
	qr.BackgroundColor = colorText
	qr.ForegroundColor = colorBackground
	code := qr.Image(qrSize)
	at := image.Pt(Width-margin-qrSize, Height-margin-qrSize)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(qrSize, qrSize))}, code, code.Bounds().Min, draw.Src)
	return nil
}

// fit shortens text with an ellipsis until it fits within width pixels.
func fit(d *font.Drawer, text string, width int) string {
	if d.MeasureString(text).Ceil() <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRightFunc(string(runes), unicode.IsSpace) + "…"
		if d.MeasureString(candidate).Ceil() <= width {
			return candidate
		}
	}
	return ""
}

// Initials returns up to two uppercase initials from name, or "?".
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
