package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "en_attente"
	RequestApproved RequestStatus = "approuvee"
	RequestRejected RequestStatus = "rejetee"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// OwnerRequest asks an admin to promote a client to proprietaire.
// Approved and rejected are terminal.
type OwnerRequest struct {
	ID           string        `json:"_id"`
	UserID       string        `json:"utilisateur"`
	Status       RequestStatus `json:"statut"`
	RequestDate  time.Time     `json:"dateDemande"`
	DecisionDate *time.Time    `json:"dateTraitement,omitempty"`
	DecidedBy    string        `json:"traitePar,omitempty"`
}

// OwnerRequestView is a request with the requesting user and deciding admin populated.
type OwnerRequestView struct {
	ID           string        `json:"_id"`
	User         *OwnerSummary `json:"utilisateur"`
	Status       RequestStatus `json:"statut"`
	RequestDate  time.Time     `json:"dateDemande"`
	DecisionDate *time.Time    `json:"dateTraitement,omitempty"`
	DecidedBy    *OwnerSummary `json:"traitePar,omitempty"`
}
