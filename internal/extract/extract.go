package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLS  = "application/vnd.ms-excel"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeCSV  = "text/csv"
)

// ErrMalformed reports document content that could not be decoded.
var ErrMalformed = errors.New("malformed document content")

// Result is the outcome of content extraction for one file.
type Result struct {
	// Text is the decoded plain text. Empty when Native is set.
	Text string
	// Native indicates the raw buffer should be forwarded to the model
	// unmodified so visual layout survives.
	Native bool
}

// NativeCapable reports whether a media type is consumed natively by the model.
func NativeCapable(mimeType string) bool {
	return normalizeMimeType(mimeType, "", nil) == MimePDF
}

// FromBytes converts an uploaded file's bytes into analyzable content.
// PDFs default to native pass-through; preferText forces text-layer extraction.
func FromBytes(ctx context.Context, data []byte, mimeType, fileName string, preferText bool) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	normalized := normalizeMimeType(mimeType, fileName, data)
	switch {
	case normalized == MimePDF && !preferText:
		return Result{Native: true}, nil
	case normalized == MimePDF:
		text, err := extractPDF(data)
		if err != nil {
			return Result{}, fmt.Errorf("extract %s: %w: %v", fileName, ErrMalformed, err)
		}
		return Result{Text: text}, nil
	case normalized == MimeDOCX || normalized == MimeDOC:
		text, err := extractDOCX(data)
		if err != nil {
			return Result{}, fmt.Errorf("extract %s: %w: %v", fileName, ErrMalformed, err)
		}
		return Result{Text: text}, nil
	case normalized == MimeXLSX || normalized == MimeXLS:
		text, err := extractXLSX(data)
		if err != nil {
			return Result{}, fmt.Errorf("extract %s: %w: %v", fileName, ErrMalformed, err)
		}
		return Result{Text: text}, nil
	case normalized == MimeCSV:
		text, err := extractCSV(data)
		if err != nil {
			return Result{}, fmt.Errorf("extract %s: %w: %v", fileName, ErrMalformed, err)
		}
		return Result{Text: text}, nil
	default:
		// Unrecognized types degrade to a raw UTF-8 read rather than failing.
		return Result{Text: string(data)}, nil
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

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
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "application/zip" {
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".docx":
		return MimeDOCX
	case ".xlsx":
		return MimeXLSX
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch name {
		case "word/document.xml":
			return MimeDOCX
		case "xl/workbook.xml":
			return MimeXLSX
		}
	}
	return ""
}
