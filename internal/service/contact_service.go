package service

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"herbal-store/internal/model"
	"herbal-store/internal/repository"
	"herbal-store/pkg/apierror"
)

type ContactService struct {
	messages *repository.ContactRepository
}

func NewContactService(messages *repository.ContactRepository) *ContactService {
	return &ContactService{messages: messages}
}

func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) (model.ContactMessage, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)

	if name == "" || email == "" || message == "" {
		return model.ContactMessage{}, apierror.New("BAD_REQUEST", "Name, email and message are required", "", http.StatusBadRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.ContactMessage{}, apierror.New("BAD_REQUEST", "Invalid email address", "email", http.StatusBadRequest)
	}

	record := model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.messages.Create(ctx, record); err != nil {
		return model.ContactMessage{}, err
	}
	return record, nil
}

func (s *ContactService) List(ctx context.Context, page int, limit int) ([]model.ContactMessage, *model.Meta, error) {
	page, limit = NormalizePage(page, limit)

	messages, total, err := s.messages.List(ctx, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return messages, model.NewMeta(page, limit, total), nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return model.ErrMessageNotFound
	}
	return s.messages.Delete(ctx, id)
}
