package service

import (
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"mass-sign-client/internal/domain"
)

// pdfInspector implements domain.PDFInspector with pdfcpu. Reading the page
// count doubles as a structural check: content that does not parse as a PDF
// fails here before it reaches the signing service.
type pdfInspector struct {
	conf *model.Configuration
}

// NewPDFInspector creates the default pdfcpu-backed inspector.
func NewPDFInspector() domain.PDFInspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfInspector{conf: conf}
}

func (p *pdfInspector) PageCount(rs io.ReadSeeker) (int, error) {
	return api.PageCount(rs, p.conf)
}
