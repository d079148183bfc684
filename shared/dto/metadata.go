package dto

import (
	"dogwalking/shared/constant"
	"dogwalking/shared/model"
	"dogwalking/shared/timezone"
)

// Metadata is the audit block of every response. Changes made by sweeps and
// consumers carry the system actor.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(audit model.Metadata) {
	m.CreatedAt = timezone.Format(audit.CreatedAt, constant.DateFormat)
	m.ModifiedAt = timezone.Format(audit.ModifiedAt, constant.DateFormat)
	m.CreatedBy = audit.CreatedBy
	m.ModifiedBy = audit.ModifiedBy
}

// IsSystemModified reports whether the last change came from background work.
func (m Metadata) IsSystemModified() bool {
	return m.ModifiedBy == constant.ActorSystem
}
