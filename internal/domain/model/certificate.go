package model

import (
	"fmt"
	"time"
)

// Certificate is issued once per (user, course) when every chapter is
// completed. Rendering to PDF happens outside this service; we only keep
// the record and the serial.
type Certificate struct {
	ID         string
	UserID     string
	CourseID   string
	Serial     string
	SignerName string
	SignerRole string
	IssuedAt   time.Time
}

// CertificateSerial builds the human-facing serial from the issue date and
// a short id fragment.
func CertificateSerial(issuedAt time.Time, id string) string {
	frag := id
	if len(frag) > 8 {
		frag = frag[:8]
	}
	return fmt.Sprintf("OL-%s-%s", issuedAt.UTC().Format("20060102"), frag)
}
