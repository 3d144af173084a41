package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrParse wraps any failure to turn an upload into text.
	ErrParse = errors.New("failed to parse document")
	// ErrUnsupportedType is returned for extensions outside pdf/docx/txt.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// AllowedExtensions lists the upload types the service accepts.
var AllowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
}

// Allowed reports whether the filename carries an accepted extension.
func Allowed(filename string) bool {
	_, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// FromBytes converts an uploaded document into normalized plain text.
// Dispatch is by file extension; an empty extraction result is an error.
func FromBytes(data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrParse)
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = fromPDF(data)
	case ".docx":
		text, err = fromDOCX(data)
	case ".txt":
		text, err = fromText(data)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content could be extracted", ErrParse)
	}
	return text, nil
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fromDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML flattens document.xml to text, emitting newlines at paragraph
// and line-break boundaries.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func fromText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	// latin-1 fallback: every byte maps to the same code point.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
