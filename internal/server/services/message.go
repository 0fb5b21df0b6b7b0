package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophchat/internal/server/storage"
)

type SendInput struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uploader    storage.ImageUploader
	publisher   events.Publisher
	log         logging.Logger
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, uploader storage.ImageUploader,
	publisher events.Publisher, log logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
		uploader:    uploader,
		publisher:   publisher,
		log:         log.With("module", "messages"),
	}
}

// History returns the conversation between userID and otherID, oldest first.
// An unknown otherID simply has no messages.
func (s *MessageService) History(ctx context.Context, userID, otherID string) ([]*models.Message, error) {
	list, err := s.repomanager.Messages(s.db).History(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("error getting history: %w", err)
	}
	return list, nil
}

// Send stores a message from senderID to receiverID. The receiver must exist;
// an attached image is uploaded before the message is persisted. Publishing
// the event is best effort.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID string, in SendInput) (*models.Message, error) {
	if _, err := s.repomanager.Users(s.db).GetUserByID(ctx, receiverID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error getting receiver: %w", err)
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       in.Text,
	}

	if in.Image != "" {
		url, err := s.uploader.Upload(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		msg.Image = url
	}

	created, err := s.repomanager.Messages(s.db).Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewMessageEvent(created)); err != nil {
		s.log.Warn(ctx, "publish message event failed",
			"message_id", created.ID,
			"receiver_id", created.ReceiverID,
			"error", err,
		)
	}

	return created, nil
}
