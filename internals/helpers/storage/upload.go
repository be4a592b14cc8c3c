package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jejakliqo_backend/internals/constants"
)

const (
	MaxUploadSize  = 5 << 20
	maxImageWidth  = 1280
	maxImageHeight = 1280
	webpQuality    = 80
)

type Uploaded struct {
	Key         string
	Kind        constants.FileKind
	ContentType string
	Size        int64
}

// UploadFile menyimpan file multipart ke dir/<tanggal>/<uuid>.<ext>.
// Gambar dikonversi ke WebP (diperkecil bila perlu), PDF/Excel disimpan
// apa adanya, selain itu ditolak 415.
func UploadFile(ctx context.Context, s Store, dir string, fh *multipart.FileHeader) (Uploaded, error) {
	if fh == nil {
		return Uploaded{}, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if fh.Size > MaxUploadSize {
		return Uploaded{}, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Ukuran file maksimal %d MB", MaxUploadSize>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return Uploaded{}, fmt.Errorf("buka file: %w", err)
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return Uploaded{}, fmt.Errorf("baca file: %w", err)
	}
	return UploadBytes(ctx, s, dir, fh.Filename, raw)
}

func UploadBytes(ctx context.Context, s Store, dir, filename string, raw []byte) (Uploaded, error) {
	if len(raw) == 0 {
		return Uploaded{}, fiber.NewError(fiber.StatusBadRequest, "File kosong")
	}
	if len(raw) > MaxUploadSize {
		return Uploaded{}, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Ukuran file maksimal %d MB", MaxUploadSize>>20))
	}

	kind := constants.DetectFileKind(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	body := raw
	contentType := http.DetectContentType(raw)

	switch kind {
	case constants.FileKindImage:
		body, err := ConvertToWebP(raw)
		if err != nil {
			return Uploaded{}, fiber.NewError(fiber.StatusUnsupportedMediaType, "Format gambar tidak didukung (pakai jpg/png/webp)")
		}
		return put(ctx, s, dir, ".webp", body, "image/webp", kind)
	case constants.FileKindPDF:
		contentType = "application/pdf"
	case constants.FileKindExcel:
		switch ext {
		case ".csv":
			contentType = "text/csv"
		case ".xls":
			contentType = "application/vnd.ms-excel"
		default:
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		}
	default:
		return Uploaded{}, fiber.NewError(fiber.StatusUnsupportedMediaType, "Tipe file tidak didukung (gambar, pdf, atau excel)")
	}
	return put(ctx, s, dir, ext, body, contentType, kind)
}

func put(ctx context.Context, s Store, dir, ext string, body []byte, contentType string, kind constants.FileKind) (Uploaded, error) {
	key := path.Join(strings.Trim(dir, "/"), time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
	if err := s.Put(ctx, key, bytes.NewReader(body), contentType); err != nil {
		return Uploaded{}, fmt.Errorf("simpan file: %w", err)
	}
	return Uploaded{Key: key, Kind: kind, ContentType: contentType, Size: int64(len(body))}, nil
}

// ConvertToWebP: decode (jpeg/png/gif/webp) → fit ke batas maksimum → encode webp.
func ConvertToWebP(raw []byte) ([]byte, error) {
	img, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > maxImageWidth || b.Dy() > maxImageHeight {
		img = imaging.Fit(img, maxImageWidth, maxImageHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeImage(raw []byte) (image.Image, error) {
	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	if strings.Contains(http.DetectContentType(head), "webp") {
		return webp.Decode(bytes.NewReader(raw))
	}
	return imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
}
