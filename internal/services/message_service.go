package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/models"
	repo "github.com/FindHome-mobile/FindHome-Backend/internal/repository"
)

type MessageService struct {
	messages repo.Messages
	log      *slog.Logger
}

func NewMessageService(messages repo.Messages, log *slog.Logger) *MessageService {
	return &MessageService{messages: messages, log: log}
}

func (s *MessageService) Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" ||
		strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.Message) == "" {
		return models.ContactMessage{}, Validation("Tous les champs sont requis")
	}
	if err := m.Validate(); err != nil {
		return models.ContactMessage{}, invalid(err)
	}
	saved, err := s.messages.Create(ctx, m)
	if err != nil {
		s.log.Error("message create failed", "email", m.Email, "err", err)
		return models.ContactMessage{}, Internal("Une erreur est survenue lors de la création du message.", err)
	}
	s.log.Info("contact message received", "message_id", saved.ID, "email", saved.Email)
	return saved, nil
}

// List returns messages newest first.
func (s *MessageService) List(ctx context.Context) ([]models.ContactMessage, error) {
	ms, err := s.messages.List(ctx)
	if err != nil {
		return nil, Internal("Une erreur est survenue lors de la récupération des messages.", err)
	}
	return ms, nil
}
