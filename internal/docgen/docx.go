package docgen

import (
	"bytes"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"

	"github.com/veriplagio/veriplagio/internal/highlight"
)

// ContentType is the MIME type of the generated document.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Filename is the attachment name offered on download.
const Filename = "resultado_plagio.docx"

// Build serializes the highlighted runs into a DOCX document where
// flagged runs are bold and red and everything else keeps the default
// style.
func Build(runs []highlight.Run) ([]byte, error) {
	doc := document.New()
	para := doc.AddParagraph()

	for _, r := range runs {
		run := para.AddRun()
		run.AddText(r.Text)
		if r.Highlighted {
			run.Properties().SetBold(true)
			run.Properties().SetColor(color.Red)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
