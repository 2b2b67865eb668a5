package extraction

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"
)

// extractWord reads the raw text of an Office Open XML document. Legacy binary
// .doc files are recognised and rejected with a descriptive error.
func extractWord(format string, data []byte) (*Result, error) {
	detected := mimetype.Detect(data)
	switch {
	case hasMIME(detected, "application/x-ole-storage"):
		return nil, &ExtractionError{
			Format: format,
			Detail: "legacy binary Word documents are not supported; save the file as .docx and upload it again",
		}
	case !hasMIME(detected, "application/zip"):
		return nil, &ExtractionError{
			Format: format,
			Detail: "file content is not a Word document (detected " + detected.String() + ")",
		}
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Format: format, Detail: "failed to open Word document", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	text, err := documentText(doc.Editable().GetContent())
	if err != nil {
		return nil, &ExtractionError{Format: format, Detail: "failed to read document body", Cause: err}
	}
	return &Result{Text: text}, nil
}

// documentText reduces WordprocessingML to raw text: one line per paragraph,
// tabs and breaks inside runs kept, everything else dropped.
func documentText(body string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))
	var sb strings.Builder
	inRun, inText := false, false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					sb.WriteString("\t")
				}
			case "br", "cr":
				if inRun {
					sb.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
