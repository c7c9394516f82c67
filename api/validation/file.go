package validation

import (
	"bytes"
	"io"
	"mime/multipart"
)

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypePNG  FileType = "png"
	FileTypeJPEG FileType = "jpeg"
)

// PDFs are the primary input; PNG and JPEG are accepted for scanned
// statements and go through the OCR path in the worker.
var magicBytes = map[FileType][]byte{
	FileTypePDF:  {0x25, 0x50, 0x44, 0x46},
	FileTypePNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	FileTypeJPEG: {0xFF, 0xD8, 0xFF},
}

// DetectFileType sniffs the upload's leading bytes and rewinds the
// reader. Extension is ignored on purpose; only content counts.
func DetectFileType(file multipart.File) (FileType, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyFile
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	for fileType, signature := range magicBytes {
		if bytes.HasPrefix(buffer[:n], signature) {
			return fileType, nil
		}
	}

	return "", ErrInvalidFileType
}
