package internal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

const receiptPrefix = "RW-"

//go:generate mockgen -source=service.go -destination=mock/service.go

type IService interface {
	Pricing() model.PricingTable
	CreateOrder(context.Context, model.OrderInput) (model.Order, error)
	GetOrder(context.Context, int) (model.Order, error)
	GetOrderByReceipt(context.Context, string) (model.Order, error)
	UpdateOrder(context.Context, int, model.OrderPatch) (model.Order, error)
	DeleteOrder(context.Context, int) error
	ListOrders(context.Context, model.OrderFilter) ([]model.Order, error)
	MarkCollected(context.Context, string) (model.CollectionResult, error)
	Invoice(context.Context, string) (model.Invoice, error)
	Summary(context.Context) (model.Summary, error)
	NextReceiptNumber(context.Context, time.Time) (string, error)
}

type Service struct {
	Repository IRepository
	notifier   INotifier
	cache      ICache
	settings   Settings
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewService(repository IRepository, notifier INotifier, cache ICache, settings Settings, logger *zap.SugaredLogger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		Repository: repository,
		notifier:   notifier,
		cache:      cache,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}
}

func (s Service) Pricing() model.PricingTable {
	return s.settings.Pricing
}

func (s Service) CreateOrder(ctx context.Context, in model.OrderInput) (model.Order, error) {
	o, err := ValidateForCreate(in, s.settings.Pricing)
	if err != nil {
		return model.Order{}, err
	}
	if o.Quantities.IsZero() {
		s.logger.Warnf("order %s has no billable quantities", o.ReceiptNumber)
	}

	o, err = s.Repository.Insert(ctx, o)
	if err != nil {
		return model.Order{}, err
	}

	s.invalidateReports(ctx)
	return o, nil
}

func (s Service) GetOrder(ctx context.Context, id int) (model.Order, error) {
	return s.Repository.FindByID(ctx, id)
}

func (s Service) GetOrderByReceipt(ctx context.Context, receiptNumber string) (model.Order, error) {
	return s.Repository.FindByReceiptNumber(ctx, strings.TrimSpace(receiptNumber))
}

func (s Service) UpdateOrder(ctx context.Context, id int, patch model.OrderPatch) (model.Order, error) {
	if err := ValidatePatch(patch); err != nil {
		return model.Order{}, err
	}

	o, err := s.Repository.Update(ctx, id, patch)
	if err != nil {
		return model.Order{}, err
	}

	s.invalidateReports(ctx)
	return o, nil
}

func (s Service) DeleteOrder(ctx context.Context, id int) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateReports(ctx)
	return nil
}

func (s Service) ListOrders(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	return s.Repository.ListAll(ctx, f)
}

// NextReceiptNumber suggests RW-YYYYMMDD-NNNN, one past the highest receipt
// issued for that day. Insert still decides uniqueness.
func (s Service) NextReceiptNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := receiptPrefix + day.Format("20060102") + "-"

	last, err := s.Repository.LastReceiptNumber(ctx, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			s.logger.Warnf("unexpected receipt number %s for prefix %s", last, prefix)
		} else {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, next), nil
}

func (s Service) invalidateReports(ctx context.Context) {
	if err := s.cache.Delete(ctx, s.cache.GenerateKey("summary", "all")); err != nil {
		s.logger.Errorf("report cache invalidation error: %s", err.Error())
	}
}
