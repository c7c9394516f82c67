package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Tesseract accuracy drops sharply on small or colored scans, so
// anything narrower than this is upscaled before OCR.
const minScanWidth = 1500

// prepareScan grayscales and, if needed, upscales the image into a
// temp PNG for tesseract. The caller must invoke cleanup.
func prepareScan(path string) (string, func(), error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open scan: %w", err)
	}

	img := imaging.Grayscale(src)
	if img.Bounds().Dx() < minScanWidth {
		img = imaging.Resize(img, minScanWidth, 0, imaging.Lanczos)
	}

	tmpDir, err := os.MkdirTemp("", "fa-scan-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	prepared := filepath.Join(tmpDir, "scan.png")
	if err := imaging.Save(img, prepared); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("save prepared scan: %w", err)
	}

	return prepared, cleanup, nil
}
