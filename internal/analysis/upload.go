package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/nanohunter/internal/options"
)

// multipartMemory bounds the parsed form kept in memory; larger parts spill to disk.
const multipartMemory = 32 << 20

// readImage returns the bytes and name of the named file field. A missing
// field yields ErrNoImage when required and nil otherwise.
func readImage(r *http.Request, field string, maxSize int64, required bool) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("%s: %w", field, ErrNoImage)
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, "", fmt.Errorf("%s: %w", field, ErrFileTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", fmt.Errorf("%s: %w", field, ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s: %w", field, ErrNoImage)
	}

	if ct := detectMIME(header, data); !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("%s (%s): %w", field, ct, ErrUnsupportedType)
	}

	return data, header.Filename, nil
}

// detectMIME sniffs the content, falling back to the richer mimetype
// detector when the standard sniffer cannot classify it.
func detectMIME(header *multipart.FileHeader, data []byte) string {
	ct := http.DetectContentType(data)
	if ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
	}
	if ct == "application/octet-stream" && header != nil {
		if declared := header.Header.Get("Content-Type"); declared != "" {
			ct = declared
		}
	}
	return ct
}

func parseCommand(r *http.Request, maxSize int64) (Command, error) {
	var cmd Command

	image, name, err := readImage(r, "image", maxSize, true)
	if err != nil {
		return cmd, err
	}
	reference, _, err := readImage(r, "reference", maxSize, false)
	if err != nil {
		return cmd, err
	}

	preservation := options.Defaults()
	if raw := r.FormValue("options"); raw != "" {
		var flags map[string]bool
		if err := json.Unmarshal([]byte(raw), &flags); err != nil {
			return cmd, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		if preservation, err = options.NewPreservation(flags); err != nil {
			return cmd, err
		}
	}

	ratio, err := options.ParseAspectRatio(r.FormValue("aspect_ratio"))
	if err != nil {
		return cmd, err
	}
	mode, err := options.ParseSubjectMode(r.FormValue("subject_mode"))
	if err != nil {
		return cmd, err
	}

	return Command{
		Image:          image,
		ImageName:      name,
		Reference:      reference,
		Preservation:   preservation,
		AspectRatio:    ratio,
		SubjectMode:    mode,
		UserPrompt:     strings.TrimSpace(r.FormValue("user_prompt")),
		NegativePrompt: strings.TrimSpace(r.FormValue("negative_prompt")),
	}, nil
}
