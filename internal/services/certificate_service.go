// Package services holds document generation that sits between the
// dispatch handlers and their repositories.
package services

import (
	"bytes"
	"fmt"

	"edubackend/internal/domain/models"

	"github.com/phpdave11/gofpdf"
)

// CertificateService renders CPD certificates as PDF.
type CertificateService struct{}

// Generate builds the certificate for one CPD record. The returned name
// is the suggested download filename.
func (CertificateService) Generate(record models.CPDRecord, teacher models.User) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("CPD Certificate", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 20, "Certificate of Professional Development", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, safe(teacher.Name, "-"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, "has completed the following activity:", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	lines := []string{
		fmt.Sprintf("Activity : %s", safe(record.Activity, "-")),
		fmt.Sprintf("Hours    : %.1f", record.Hours),
		fmt.Sprintf("Date     : %s", safe(record.ActivityDate, "-")),
		fmt.Sprintf("Record   : %s", record.ID.String()),
	}
	pdf.SetFont("Courier", "", 12)
	for _, line := range lines {
		pdf.CellFormat(0, 8, line, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("cpd-certificate-%s.pdf", record.ID.String())
	return buf.Bytes(), name, nil
}

func safe(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
