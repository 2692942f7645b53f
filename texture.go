package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrTextureNotFound = errors.New("texture not found")

type Texture struct {
	Path string
	RGBA *image.RGBA
	ID   uint32
}

// LoadTexture decodes the image at path and uploads it with mipmaps.
func LoadTexture(path string) (*Texture, error) {
	rgba, err := decodeRGBA(path)
	if err != nil {
		return nil, err
	}

	texture := &Texture{}
	texture.Path = path
	texture.RGBA = rgba

	texture.upload()

	return texture, nil
}

func decodeRGBA(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrTextureNotFound, path)
		}
		return nil, fmt.Errorf("unable to open texture %q: %w", path, err)
	}
	defer file.Close()

	m, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("unable to decode texture %q: %w", path, err)
	}

	rgba := image.NewRGBA(m.Bounds())
	if rgba.Stride != rgba.Rect.Size().X*4 {
		return nil, fmt.Errorf("unsupported stride")
	}
	draw.Draw(rgba, rgba.Bounds(), m, m.Bounds().Min, draw.Src)

	return rgba, nil
}

func (texture *Texture) upload() {
	if texture.ID != 0 {
		texture.delete()
	}

	gl.GenTextures(1, &texture.ID)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture.ID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(texture.RGBA.Rect.Dx()),
		int32(texture.RGBA.Rect.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(texture.RGBA.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (texture *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture.ID)
}

func (texture *Texture) delete() {
	gl.DeleteTextures(1, &texture.ID)
	texture.ID = 0
}

func (texture *Texture) Destroy() {
	texture.delete()
	texture.RGBA = nil
	texture.Path = ""
}
