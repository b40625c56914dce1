package media

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the largest accepted upload (10 MiB).
const MaxFileSize = 10 << 20

// allowedTypes are the accepted MIME types, detected from content.
var allowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}

// readValidated reads r fully, rejecting oversized or unsupported content.
// It returns the content and its detected MIME type.
func readValidated(r io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, "", ErrNoFile
	}
	if n > MaxFileSize {
		return nil, "", ErrTooLarge
	}

	mt := mimetype.Detect(buf.Bytes())
	for _, allowed := range allowedTypes {
		if mt.Is(allowed) {
			return buf.Bytes(), allowed, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
}
