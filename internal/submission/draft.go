// Package submission implements the multi-step assembly of a new
// manifestation: a draft carried across steps (and across the login redirect),
// an attachment acceptance filter, and the finalize operation that commits
// the draft with a freshly assigned protocol.
package submission

import (
	"strings"

	"ouvidoria/internal/manifestation"
)

// Draft is the explicit value object carrying partial submission state
// between steps. It is finalized once a subject has been chosen.
type Draft struct {
	Texto   string                     `json:"texto"`
	Assunto string                     `json:"assunto"`
	Anonima bool                       `json:"anonima"`
	Anexos  []manifestation.Attachment `json:"anexos"`
}

// acceptedContentTypes mirrors the client file picker: images, video, PDF and
// common document formats.
var acceptedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
	"text/plain": true,
}

// AcceptableAttachment reports whether one attachment passes the type/size
// filter.
func AcceptableAttachment(a manifestation.Attachment, maxBytes int64) bool {
	if a.SizeBytes <= 0 || a.SizeBytes > maxBytes {
		return false
	}
	ct := strings.ToLower(a.ContentType)
	if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") {
		return true
	}
	return acceptedContentTypes[ct]
}

// FilterAttachments splits attachments into accepted and rejected. Rejecting
// a file never aborts acceptance of the remaining valid files.
func FilterAttachments(anexos []manifestation.Attachment, maxBytes int64) (accepted, rejected []manifestation.Attachment) {
	for _, a := range anexos {
		if AcceptableAttachment(a, maxBytes) {
			accepted = append(accepted, a)
		} else {
			rejected = append(rejected, a)
		}
	}
	return accepted, rejected
}
