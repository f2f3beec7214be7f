package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gl/engine/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned when creating a texture from an image with no pixels.
var ErrEmptyImage = errors.New("texture: image has no pixels")

// StagingData holds RGBA pixel data pending upload.
type StagingData struct {
	// Pixels is the pixel data in RGBA order, 4 bytes per pixel, rows top to bottom.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width int
	// Height is the height of the texture in pixels.
	Height int
}

// glTexture is the implementation of the Texture interface.
type glTexture struct {
	r      renderer.Renderer
	handle uint32
	target uint32
	width  int
	height int

	minFilter int32
	magFilter int32
	wrap      int32
	maxSize   int
}

// Texture is a GL texture object with a known size. Binding goes through the owning
// Renderer so redundant binds on the same unit are skipped.
type Texture interface {
	// Width returns the texture width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the texture height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Handle returns the GL texture name.
	//
	// Returns:
	//   - uint32: the texture handle (0 after Dispose)
	Handle() uint32

	// Target returns the GL texture target, e.g. gl.Texture2D.
	//
	// Returns:
	//   - uint32: the texture target
	Target() uint32

	// Bind binds the texture on a texture unit.
	//
	// Parameters:
	//   - unit: the texture unit
	//
	// Returns:
	//   - bool: true if a bind was issued, false if the unit already held the texture
	Bind(unit int) bool

	// Dispose deletes the GL texture. The texture must not be used afterwards.
	Dispose()
}

var _ Texture = &glTexture{}

// NewTexture uploads an image as a 2D RGBA texture. Images larger than the configured
// maximum size are scaled down, keeping their aspect ratio.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - img: the source image
//   - options: functional options (WithFilter, WithWrap, WithMaxSize)
//
// Returns:
//   - Texture: the uploaded texture
//   - error: ErrEmptyImage, or a GL error when error checks are enabled
func NewTexture(r renderer.Renderer, img image.Image, options ...TextureBuilderOption) (Texture, error) {
	t := newTexture(r, options...)
	rgba := t.toRGBA(img)
	if rgba == nil {
		return nil, ErrEmptyImage
	}
	return t.upload(StagingData{Pixels: rgba.Pix, Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy()})
}

// NewTextureFromStaging uploads raw RGBA pixels as a 2D texture.
//
// Parameters:
//   - r: the renderer owning the GL context
//   - data: the pixels and their dimensions
//   - options: functional options (WithFilter, WithWrap)
//
// Returns:
//   - Texture: the uploaded texture
//   - error: an error if the pixel data does not match the dimensions, or a GL error
func NewTextureFromStaging(r renderer.Renderer, data StagingData, options ...TextureBuilderOption) (Texture, error) {
	if data.Width <= 0 || data.Height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(data.Pixels) != data.Width*data.Height*4 {
		return nil, fmt.Errorf("texture: %d bytes of pixel data for %dx%d RGBA", len(data.Pixels), data.Width, data.Height)
	}
	return newTexture(r, options...).upload(data)
}

// NewWhite creates a 1x1 opaque white texture, used for untextured draws through a
// textured program.
//
// Parameters:
//   - r: the renderer owning the GL context
//
// Returns:
//   - Texture: the white texture
//   - error: a GL error when error checks are enabled
func NewWhite(r renderer.Renderer) (Texture, error) {
	return NewTextureFromStaging(r, StagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}, WithFilter(gl.Nearest))
}

func newTexture(r renderer.Renderer, options ...TextureBuilderOption) *glTexture {
	t := &glTexture{
		r:         r,
		target:    gl.Texture2D,
		minFilter: gl.Linear,
		magFilter: gl.Linear,
		wrap:      gl.ClampToEdge,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// toRGBA converts img to a tightly packed RGBA image, scaling it down to maxSize.
func (t *glTexture) toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	w, h := b.Dx(), b.Dy()
	if t.maxSize > 0 && (w > t.maxSize || h > t.maxSize) {
		if w >= h {
			w, h = t.maxSize, max(1, h*t.maxSize/w)
		} else {
			w, h = max(1, w*t.maxSize/h), t.maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == w*4 && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func (t *glTexture) upload(data StagingData) (Texture, error) {
	g := t.r.GL()
	g.GenTextures(1, &t.handle)
	t.width, t.height = data.Width, data.Height

	// upload on unit 0; the tracker is updated so later binds stay consistent
	t.r.BindTexture(0, t.target, t.handle)
	g.TexParameteri(t.target, gl.TextureMinFilter, t.minFilter)
	g.TexParameteri(t.target, gl.TextureMagFilter, t.magFilter)
	g.TexParameteri(t.target, gl.TextureWrapS, t.wrap)
	g.TexParameteri(t.target, gl.TextureWrapT, t.wrap)
	g.PixelStorei(gl.UnpackAlignment, 1)
	g.TexImage2D(t.target, 0, gl.RGBA8, int32(data.Width), int32(data.Height), 0, gl.RGBA, gl.UnsignedByte, unsafe.Pointer(&data.Pixels[0]))
	if err := t.r.Check("TexImage2D"); err != nil {
		t.Dispose()
		return nil, err
	}
	return t, nil
}

func (t *glTexture) Width() int {
	return t.width
}

func (t *glTexture) Height() int {
	return t.height
}

func (t *glTexture) Handle() uint32 {
	return t.handle
}

func (t *glTexture) Target() uint32 {
	return t.target
}

func (t *glTexture) Bind(unit int) bool {
	return t.r.BindTexture(unit, t.target, t.handle)
}

func (t *glTexture) Dispose() {
	if t.handle == 0 {
		return
	}
	t.r.ForgetTexture(t.handle)
	t.r.GL().DeleteTextures(1, &t.handle)
	t.handle = 0
}

// Solid returns a w×h image filled with c, handy for placeholder textures.
//
// Parameters:
//   - w, h: the image size in pixels
//   - c: the fill color
//
// Returns:
//   - *image.RGBA: the filled image
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}
