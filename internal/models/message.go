package models

import (
	"strings"
	"time"

	"github.com/FindHome-mobile/FindHome-Backend/internal/api/validate"
)

type ContactMessage struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *ContactMessage) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(strings.ToLower(m.Email))
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)

	var errs validate.Errs
	errs.Add(validate.Required("name", m.Name, "Le nom complet est requis"))
	if f := validate.Required("email", m.Email, "L'adresse email est requise"); f != nil {
		errs.Add(f)
	} else {
		errs.Add(validate.Email("email", m.Email, "Veuillez fournir une adresse email valide"))
	}
	errs.Add(validate.Required("subject", m.Subject, "Le sujet est requis"))
	errs.Add(validate.Required("message", m.Message, "Le message est requis"))
	return errs.Err()
}
