// Package submission persists and forwards completed intake forms. The wizard
// hands its answers over and moves on; everything here happens in the
// background and failures are only logged.
package submission

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"latexorder-bot/internal/session"
	"latexorder-bot/internal/storage"
	"latexorder-bot/internal/wizard"
	"latexorder-bot/pkg/api"
)

const defaultTimeout = 30 * time.Second

type OrderRepository interface {
	SaveOrder(ctx context.Context, order storage.Order) (int64, error)
}

type Forwarder interface {
	SubmitOrder(ctx context.Context, req api.OrderRequest) error
}

type AdminNotifier interface {
	NotifyNewOrder(ctx context.Context, order storage.Order) error
}

type Deps struct {
	Orders    OrderRepository
	Forwarder Forwarder // nil when no intake backend is configured
	Notifier  AdminNotifier
	Timeout   time.Duration
	Logger    *zap.Logger

	Now          func() time.Time
	NewReference func() string
}

type Service struct {
	deps Deps
	wg   sync.WaitGroup
}

var _ session.Submitter = (*Service)(nil)

func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = defaultTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewReference == nil {
		deps.NewReference = func() string { return uuid.NewString() }
	}
	return &Service{deps: deps}
}

// Submit returns immediately. The order outlives the update that produced it,
// so the caller's cancellation is detached.
func (s *Service) Submit(ctx context.Context, chatID int64, answers wizard.FormAnswers) {
	order := storage.Order{
		Reference:       s.deps.NewReference(),
		UserID:          chatID,
		Name:            answers.Name,
		Email:           answers.Email,
		PageCount:       answers.PageCount,
		ProjectNotes:    answers.ProjectNotes,
		AdditionalNotes: answers.AdditionalNotes,
		Status:          storage.StatusNew,
		CreatedAt:       s.deps.Now(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.deps.Timeout)
		defer cancel()

		s.process(ctx, order)
	}()
}

// Wait blocks until every in-flight submission has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) process(ctx context.Context, order storage.Order) {
	logger := s.deps.Logger.With(
		zap.String("reference", order.Reference),
		zap.Int64("chat_id", order.UserID))

	if s.deps.Orders != nil {
		id, err := s.deps.Orders.SaveOrder(ctx, order)
		if err != nil {
			logger.Error("Failed to save order", zap.Error(err))
		} else {
			order.ID = id
			logger.Info("Order saved", zap.Int64("order_id", id))
		}
	}

	if s.deps.Forwarder != nil {
		if err := s.deps.Forwarder.SubmitOrder(ctx, toRequest(order)); err != nil {
			logger.Error("Failed to forward order", zap.Error(err))
		}
	}

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.NotifyNewOrder(ctx, order); err != nil {
			logger.Error("Failed to notify admins", zap.Error(err))
		}
	}
}

func toRequest(order storage.Order) api.OrderRequest {
	return api.OrderRequest{
		Reference:       order.Reference,
		UserID:          order.UserID,
		Name:            order.Name,
		Email:           order.Email,
		PageCount:       order.PageCount,
		ProjectNotes:    order.ProjectNotes,
		AdditionalNotes: order.AdditionalNotes,
		CreatedAt:       order.CreatedAt,
	}
}
