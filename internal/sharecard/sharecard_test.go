package sharecard

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polidex/internal/imageproxy"
	"polidex/internal/models"
)

func TestParamsFromQuery_Placeholders(t *testing.T) {
	p := ParamsFromQuery(url.Values{})
	assert.Equal(t, Params{
		Name:      "Unknown Politician",
		Party:     "Independent",
		State:     "—",
		StatValue: "—",
	}, p)
}

func TestParamsFromQuery_Values(t *testing.T) {
	q := url.Values{
		"name":        {"  Asha Rao "},
		"party":       {"Lok Janata Party"},
		"state":       {"Karnataka"},
		"stat_key":    {"Age"},
		"stat_value":  {"54"},
		"stat_suffix": {" yrs"},
		"photo":       {"https://dl.airtable.com/a.jpg"},
		"unknown":     {"ignored"},
	}
	p := ParamsFromQuery(q)
	assert.Equal(t, "Asha Rao", p.Name)
	assert.Equal(t, "yrs", p.StatSuffix, "values are trimmed")
	assert.Equal(t, "https://dl.airtable.com/a.jpg", p.Photo)
}

func TestQueryOmitsPlaceholders(t *testing.T) {
	q := ParamsFromQuery(url.Values{"name": {"Asha Rao"}}).Query()
	assert.Equal(t, url.Values{"name": {"Asha Rao"}}, q)
}

func TestParamsFromPolitician(t *testing.T) {
	age := 54
	photo := "https://dl.airtable.com/a.jpg"
	pol := models.Politician{Name: "Asha Rao", Age: &age, Photo: &photo}

	p := ParamsFromPolitician(pol, "age")
	assert.Equal(t, "Age", p.StatKey)
	assert.Equal(t, "54", p.StatValue)
	assert.Equal(t, "yrs", p.StatSuffix)
	assert.Equal(t, "Independent", p.Party)
	assert.Equal(t, photo, p.Photo)

	missing := ParamsFromPolitician(pol, "years")
	assert.Equal(t, "In Politics", missing.StatKey)
	assert.Equal(t, "—", missing.StatValue)

	none := ParamsFromPolitician(pol, "")
	assert.Equal(t, "", none.StatKey)
}

func TestShareAndCardURLs(t *testing.T) {
	p := Params{Name: "Asha Rao", Party: "Independent", State: "—", StatKey: "Age", StatValue: "54"}

	share := ShareURL("https://polidex.example/", "asha-rao", p)
	assert.Equal(t, "https://polidex.example/politicians/asha-rao?name=Asha+Rao&stat_key=Age&stat_value=54", share)

	card := CardURL("https://polidex.example", "asha-rao", p)
	assert.Equal(t, "https://polidex.example/og/card.png?name=Asha+Rao&slug=asha-rao&stat_key=Age&stat_value=54", card)

	assert.Equal(t, "https://polidex.example/", CanonicalURL("https://polidex.example", ""))
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Asha Rao":            "AR",
		"meera":               "M",
		"Dr. K. R. Narayanan": "DK",
		"  ":                  "?",
		"Émile Zola":          "ÉZ",
	}
	for in, want := range tests {
		assert.Equal(t, want, Initials(in), "Initials(%q)", in)
	}
}

type fakePhotos struct {
	img  *imageproxy.Image
	err  error
	urls []string
}

func (f *fakePhotos) Fetch(ctx context.Context, raw string) (*imageproxy.Image, error) {
	f.urls = append(f.urls, raw)
	return f.img, f.err
}

type memCache map[string][]byte

func (m memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memCache) Set(ctx context.Context, key string, png []byte) { m[key] = png }

func decodeCard(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())
	return img
}

func TestRender_PlaceholdersAndInitials(t *testing.T) {
	r, err := NewRenderer(nil, nil)
	require.NoError(t, err)

	data, err := r.Render(context.Background(), ParamsFromQuery(url.Values{}), "https://polidex.example/")
	require.NoError(t, err)
	img := decodeCard(t, data)

	// Centre of the photo tile is either tile or glyph colour, never background.
	c := color.RGBAModel.Convert(img.At(margin+photoSize/2, Height/2)).(color.RGBA)
	assert.NotEqual(t, colorBackground, c)
}

func TestRender_PhotoFailureDegrades(t *testing.T) {
	photos := &fakePhotos{err: errors.New("unreachable")}
	r, err := NewRenderer(photos, nil)
	require.NoError(t, err)

	p := Params{Name: "Asha Rao", Photo: "https://dl.airtable.com/a.jpg"}
	data, err := r.Render(context.Background(), p, "")
	require.NoError(t, err)
	decodeCard(t, data)
	assert.Equal(t, []string{"https://dl.airtable.com/a.jpg"}, photos.urls)
}

func TestRender_DrawsPhoto(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	src := image.NewRGBA(image.Rect(0, 0, 40, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	photos := &fakePhotos{img: &imageproxy.Image{Data: buf.Bytes(), ContentType: "image/png"}}
	r, err := NewRenderer(photos, nil)
	require.NoError(t, err)

	data, err := r.Render(context.Background(), Params{Name: "A", Photo: "https://dl.airtable.com/p.png"}, "")
	require.NoError(t, err)
	img := decodeCard(t, data)

	c := color.RGBAModel.Convert(img.At(margin+photoSize/2, Height/2)).(color.RGBA)
	assert.Equal(t, red, c)
}

// redPNG encodes a solid red w x h image.
func redPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{R: 0xff, A: 0xff}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return buf.Bytes()
}

func TestRender_OversizedPhotoDegrades(t *testing.T) {
	photos := &fakePhotos{img: &imageproxy.Image{Data: redPNG(t, 40, 80), ContentType: "image/png"}}
	r, err := NewRenderer(photos, nil)
	require.NoError(t, err)
	r.maxPixels = 40*80 - 1

	data, err := r.Render(context.Background(), Params{Name: "Asha Rao", Photo: "https://dl.airtable.com/p.png"}, "")
	require.NoError(t, err)
	img := decodeCard(t, data)

	c := color.RGBAModel.Convert(img.At(margin+photoSize/2, Height/2)).(color.RGBA)
	assert.NotEqual(t, color.RGBA{R: 0xff, A: 0xff}, c, "photo drawn despite exceeding the pixel limit")
}

func TestRender_HugeDeclaredDimensionsDegrade(t *testing.T) {
	// Rewrite the IHDR of a 1x1 PNG to declare 100000x100000.
	data := redPNG(t, 1, 1)
	binary.BigEndian.PutUint32(data[16:20], 100000)
	binary.BigEndian.PutUint32(data[20:24], 100000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 100000, cfg.Width)

	photos := &fakePhotos{img: &imageproxy.Image{Data: data, ContentType: "image/png"}}
	r, err := NewRenderer(photos, nil)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), Params{Name: "Asha Rao", Photo: "https://dl.airtable.com/p.png"}, "")
	require.NoError(t, err)
	decodeCard(t, out)
}

func TestRender_UsesCache(t *testing.T) {
	mc := memCache{}
	r, err := NewRenderer(nil, mc)
	require.NoError(t, err)

	p := Params{Name: "Asha Rao"}
	first, err := r.Render(context.Background(), p, "https://polidex.example/politicians/asha-rao")
	require.NoError(t, err)
	assert.Len(t, mc, 1)

	for k := range mc {
		mc[k] = []byte("cached")
	}
	second, err := r.Render(context.Background(), p, "https://polidex.example/politicians/asha-rao")
	require.NoError(t, err)
	assert.Equal(t, "cached", string(second))
	assert.NotEqual(t, first, second)
}

func TestStatLine(t *testing.T) {
	assert.Equal(t, "54 yrs", Params{StatValue: "54", StatSuffix: "yrs"}.StatLine())
	assert.Equal(t, "87%", Params{StatValue: "87", StatSuffix: "%"}.StatLine())
	assert.Equal(t, "—", Params{StatValue: "—"}.StatLine())
}
