// Package imgx verifies and stores uploaded images. Files are sniffed by
// content, re-encoded on save so no foreign bytes land on disk, and capped at
// 2 MiB.
package imgx

import (
	"errors"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrTooLarge = errors.New("too large")
var ErrType = errors.New("invalid type")

const maxSize = 2 * 1024 * 1024

// Verify checks the file's size and content type and returns the extension
// to store it under.
func Verify(r io.ReadSeeker) (string, error) {
	buff := make([]byte, maxSize+1)
	n, err := io.ReadFull(r, buff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}

	if n > maxSize {
		return "", ErrTooLarge
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	fileType, err := checkType(buff[:n])
	if err != nil {
		return "", err
	}

	return "." + strings.Split(fileType, "/")[1], nil
}

func checkType(buff []byte) (string, error) {
	fileType := http.DetectContentType(buff)
	switch fileType {
	case "image/png", "image/jpeg":
		return fileType, nil
	default:
		return "", ErrType
	}
}

// Save re-encodes the image into dir under name. The extension decides the
// codec, so Verify must have run first.
func Save(r io.ReadSeeker, dir, name string) error {
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer out.Close()

	if strings.HasSuffix(name, "png") {
		img, err := png.Decode(r)
		if err != nil {
			return err
		}
		return png.Encode(out, img)
	}

	img, err := jpeg.Decode(r)
	if err != nil {
		return err
	}
	return jpeg.Encode(out, img, nil)
}
