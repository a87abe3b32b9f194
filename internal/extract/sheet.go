package extract

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// extractXLSX renders a workbook as text: each sheet's name as a header
// followed by its comma-separated row dump, sheets separated by a blank line.
func extractXLSX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty workbook data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[strings.ReplaceAll(f.Name, "\\", "/")] = f
	}

	sheets, err := workbookSheets(files)
	if err != nil {
		return "", err
	}
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}

	shared, err := sharedStrings(files)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for i, sheet := range sheets {
		f, ok := files[sheet.path]
		if !ok {
			return "", fmt.Errorf("worksheet %s not found", sheet.path)
		}
		rows, err := worksheetRows(f, shared)
		if err != nil {
			return "", err
		}
		if i > 0 {
			out.WriteString("\n\n")
		}
		fmt.Fprintf(&out, "=== Sheet: %s ===\n", sheet.name)
		for j, row := range rows {
			if j > 0 {
				out.WriteString("\n")
			}
			out.WriteString(strings.Join(row, ","))
		}
	}
	return out.String(), nil
}

// extractCSV validates and re-renders CSV the same way as a one-sheet workbook.
func extractCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("=== Sheet: Sheet1 ===\n")
	for i, row := range rows {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(strings.Join(row, ","))
	}
	return out.String(), nil
}

type sheetRef struct {
	name string
	path string
}

func workbookSheets(files map[string]*zip.File) ([]sheetRef, error) {
	wb, ok := files["xl/workbook.xml"]
	if !ok {
		return nil, errors.New("workbook.xml not found")
	}

	var workbook struct {
		Sheets struct {
			Sheet []struct {
				Name string `xml:"name,attr"`
				RID  string `xml:"id,attr"`
			} `xml:"sheet"`
		} `xml:"sheets"`
	}
	if err := decodeZipXML(wb, &workbook); err != nil {
		return nil, err
	}

	targets, err := workbookRels(files)
	if err != nil {
		return nil, err
	}

	var out []sheetRef
	for i, sheet := range workbook.Sheets.Sheet {
		path := targets[sheet.RID]
		if path == "" {
			path = fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		}
		out = append(out, sheetRef{name: sheet.Name, path: path})
	}
	return out, nil
}

func workbookRels(files map[string]*zip.File) (map[string]string, error) {
	out := make(map[string]string)
	rels, ok := files["xl/_rels/workbook.xml.rels"]
	if !ok {
		return out, nil
	}

	var parsed struct {
		Relationship []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := decodeZipXML(rels, &parsed); err != nil {
		return nil, err
	}
	for _, rel := range parsed.Relationship {
		target := strings.TrimPrefix(rel.Target, "/")
		if !strings.HasPrefix(target, "xl/") {
			target = "xl/" + target
		}
		out[rel.ID] = target
	}
	return out, nil
}

func sharedStrings(files map[string]*zip.File) ([]string, error) {
	ss, ok := files["xl/sharedStrings.xml"]
	if !ok {
		return nil, nil
	}

	var parsed struct {
		SI []struct {
			T string   `xml:"t"`
			R []struct {
				T string `xml:"t"`
			} `xml:"r"`
		} `xml:"si"`
	}
	if err := decodeZipXML(ss, &parsed); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parsed.SI))
	for _, si := range parsed.SI {
		if len(si.R) == 0 {
			out = append(out, si.T)
			continue
		}
		var b strings.Builder
		for _, run := range si.R {
			b.WriteString(run.T)
		}
		out = append(out, b.String())
	}
	return out, nil
}

func worksheetRows(f *zip.File, shared []string) ([][]string, error) {
	var parsed struct {
		SheetData struct {
			Row []struct {
				C []struct {
					T  string `xml:"t,attr"`
					V  string `xml:"v"`
					IS struct {
						T string `xml:"t"`
					} `xml:"is"`
				} `xml:"c"`
			} `xml:"row"`
		} `xml:"sheetData"`
	}
	if err := decodeZipXML(f, &parsed); err != nil {
		return nil, err
	}

	var rows [][]string
	for _, row := range parsed.SheetData.Row {
		var cells []string
		for _, c := range row.C {
			cells = append(cells, cellValue(c.T, c.V, c.IS.T, shared))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func cellValue(cellType, rawValue, inline string, shared []string) string {
	switch cellType {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(rawValue))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return inline
	default:
		return rawValue
	}
}

func decodeZipXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return xml.Unmarshal(raw, v)
}
