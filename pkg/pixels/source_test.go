package pixels

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unshred/internal/models"
)

// createTestImage builds an NRGBA image whose pixels are given by pattern
func createTestImage(width, height int, pattern func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, pattern(x, y))
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	img := createTestImage(3, 2, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 10), G: uint8(y * 20), B: 7, A: 255}
	})

	src := FromImage(img)
	assert.Equal(t, 3, src.Width())
	assert.Equal(t, 2, src.Height())

	p, err := src.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 20, 7, 255}, p)
	assert.Len(t, src.Pixel(0, 0), Channels)
}

func TestFromImageNormalisesOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, color.NRGBA{R: 99, A: 255})

	src := FromImage(img)
	assert.Equal(t, 3, src.Width())
	assert.Equal(t, 2, src.Height())
	assert.Equal(t, image.Rect(0, 0, 3, 2), src.Image().Bounds())
	assert.Equal(t, 99.0, src.Pixel(0, 0)[0])
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(1, 0, color.Gray{Y: 128})

	src := FromImage(img)
	assert.Equal(t, []float64{128, 128, 128, 255}, src.Pixel(1, 0))
}

func TestAtOutOfBounds(t *testing.T) {
	src := FromImage(image.NewNRGBA(image.Rect(0, 0, 4, 4)))

	for _, pt := range []image.Point{{-1, 0}, {4, 0}, {0, -1}, {0, 4}} {
		_, err := src.At(pt.X, pt.Y)
		var boundsErr *models.BoundsError
		require.ErrorAs(t, err, &boundsErr)
		assert.Equal(t, pt.X, boundsErr.X)
		assert.Equal(t, 4, boundsErr.Width)
	}
}

func TestDecode(t *testing.T) {
	img := createTestImage(4, 4, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), B: 0, A: 255}
	})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	src, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{180, 120, 0, 255}, src.Pixel(3, 2))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	img := createTestImage(6, 3, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 40), G: 10, B: uint8(y * 50), A: 255}
	})
	path := filepath.Join(t.TempDir(), "nested", "out.png")

	require.NoError(t, Save(img, path, 90))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, src.Width())
	assert.Equal(t, img.Pix, src.Image().Pix)
}

func TestUnsupportedFormats(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "image.txt"))
	assert.Error(t, err)

	err = Save(image.NewNRGBA(image.Rect(0, 0, 1, 1)), filepath.Join(dir, "image.webp"), 90)
	assert.Error(t, err)

	assert.True(t, IsSupportedInput("a.WEBP"))
	assert.False(t, IsSupportedOutput("a.webp"))
}
