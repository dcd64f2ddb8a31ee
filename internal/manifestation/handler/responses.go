package handler

import (
	"time"

	"ouvidoria/internal/manifestation"
	"ouvidoria/internal/manifestation/service"
	"ouvidoria/internal/response"
)

// ListResponse is the HTTP response for GET /v1/manifestacoes.
type ListResponse struct {
	Items     []ListItem `json:"items"`
	HasUnread bool       `json:"has_unread"`
}

// ListItem is one manifestation in the owner's listing.
type ListItem struct {
	ID          string    `json:"id"`
	Protocolo   string    `json:"protocolo"`
	Assunto     string    `json:"assunto"`
	Anonima     bool      `json:"anonima"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	StatusTone  string    `json:"status_tone"`
	HasUnread   bool      `json:"has_unread"`
	CreatedAt   time.Time `json:"created_at"`
}

// DetailResponse is the HTTP response for GET /v1/manifestacoes/{id}.
type DetailResponse struct {
	ID          string               `json:"id"`
	Protocolo   string               `json:"protocolo"`
	Texto       string               `json:"texto"`
	Assunto     string               `json:"assunto"`
	Anonima     bool                 `json:"anonima"`
	Status      string               `json:"status"`
	StatusLabel string               `json:"status_label"`
	StatusTone  string               `json:"status_tone"`
	Anexos      []AttachmentResponse `json:"anexos,omitempty"`
	OwnerID     string               `json:"owner_id,omitempty"`
	Respostas   []ResponseItem       `json:"respostas"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AttachmentResponse is one attachment reference in the detail payload.
type AttachmentResponse struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// ResponseItem is one official response in the detail payload.
type ResponseItem struct {
	ID        string    `json:"id"`
	Orgao     string    `json:"orgao"`
	Texto     string    `json:"texto"`
	Lida      bool      `json:"lida"`
	CreatedAt time.Time `json:"created_at"`
}

// AssuntosResponse is the HTTP response for GET /v1/assuntos.
type AssuntosResponse struct {
	Assuntos []string `json:"assuntos"`
}

// FromListing converts a service listing to the HTTP shape.
func FromListing(listing service.Listing) ListResponse {
	out := ListResponse{Items: []ListItem{}, HasUnread: listing.HasUnread}
	for _, item := range listing.Items {
		m := item.Manifestation
		out.Items = append(out.Items, ListItem{
			ID:          m.ID.String(),
			Protocolo:   string(m.Protocolo),
			Assunto:     m.Assunto,
			Anonima:     m.Anonima,
			Status:      string(m.Status),
			StatusLabel: m.Status.Label(),
			StatusTone:  m.Status.Tone(),
			HasUnread:   item.HasUnread,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}

// FromDetail converts a service detail to the HTTP shape. For anonymous
// manifestations the owner ID is suppressed unless the caller is the owner
// themselves or staff.
func FromDetail(detail service.Detail, showOwner bool) DetailResponse {
	m := detail.Manifestation
	out := DetailResponse{
		ID:          m.ID.String(),
		Protocolo:   string(m.Protocolo),
		Texto:       m.Texto,
		Assunto:     m.Assunto,
		Anonima:     m.Anonima,
		Status:      string(m.Status),
		StatusLabel: m.Status.Label(),
		StatusTone:  m.Status.Tone(),
		Anexos:      fromAttachments(m.Anexos),
		Respostas:   fromResponses(detail.Responses),
		CreatedAt:   m.CreatedAt,
	}
	if !m.Anonima || showOwner {
		out.OwnerID = m.Owner.String()
	}
	return out
}

func fromAttachments(anexos []manifestation.Attachment) []AttachmentResponse {
	var out []AttachmentResponse
	for _, a := range anexos {
		out = append(out, AttachmentResponse{
			Name:        a.Name,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
		})
	}
	return out
}

func fromResponses(responses []response.Response) []ResponseItem {
	out := []ResponseItem{}
	for _, r := range responses {
		out = append(out, ResponseItem{
			ID:        r.ID.String(),
			Orgao:     r.Orgao,
			Texto:     r.Texto,
			Lida:      r.Lida,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
