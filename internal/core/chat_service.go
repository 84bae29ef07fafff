package core

import (
	"context"
	"strings"

	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/logx"
	"github.com/career-roadmap/ai-gateway/internal/provider"
	"github.com/career-roadmap/ai-gateway/internal/store"
)

const AnonymousUID = "anonymous"

// ChatStore is the slice of the store the chat flow needs.
type ChatStore interface {
	Append(ctx context.Context, uid, question, answer, engine string) (*store.ChatEntry, error)
	ListByUser(ctx context.Context, uid string) ([]store.ChatEntry, error)
	ClearByUser(ctx context.Context, uid string) (int64, error)
}

// Enricher decorates an answer before it is stored, e.g. with learning resources.
type Enricher interface {
	Enrich(ctx context.Context, question, answer string) string
}

type ChatService struct {
	dispatcher *Dispatcher
	store      ChatStore
	enricher   Enricher
}

// NewChatService wires the chat flow. enricher may be nil.
func NewChatService(d *Dispatcher, s ChatStore, enricher Enricher) *ChatService {
	return &ChatService{
		dispatcher: d,
		store:      s,
		enricher:   enricher,
	}
}

// Ask dispatches the question and stores the exchange. Nothing is stored when the
// engine fails.
func (s *ChatService) Ask(ctx context.Context, uid, engine, question string) (string, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		uid = AnonymousUID
	}
	question = strings.TrimSpace(question)

	answer, err := s.dispatcher.Dispatch(ctx, engine, question)
	if err != nil {
		return "", err
	}
	if s.enricher != nil {
		answer = s.enricher.Enrich(ctx, question, answer)
	}

	if _, err := s.store.Append(ctx, uid, question, answer, provider.Normalize(engine)); err != nil {
		log := logx.Ctx(ctx)
		log.Error().Err(err).Str("uid", uid).Msg("failed to store chat entry")
		return "", err
	}
	return answer, nil
}

func (s *ChatService) History(ctx context.Context, uid string) ([]store.ChatEntry, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errx.Validation("UID is required")
	}
	return s.store.ListByUser(ctx, uid)
}

func (s *ChatService) ClearHistory(ctx context.Context, uid string) (int64, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return 0, errx.Validation("UID is required")
	}
	deleted, err := s.store.ClearByUser(ctx, uid)
	if err != nil {
		return 0, err
	}
	log := logx.Ctx(ctx)
	log.Info().Str("uid", uid).Int64("deleted", deleted).Msg("chat history cleared")
	return deleted, nil
}
