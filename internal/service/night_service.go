package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/barnight/internal/audit"
	"github.com/mmynk/barnight/internal/calculator"
	"github.com/mmynk/barnight/internal/metrics"
	"github.com/mmynk/barnight/internal/middleware"
	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/internal/storage"
	"github.com/mmynk/barnight/pkg/api"
	"github.com/mmynk/barnight/pkg/api/apiconnect"
)

var (
	errSaveFailed   = errors.New("failed to save bar night")
	errDeleteFailed = errors.New("failed to delete bar night")
	errMissingID    = errors.New("bar night id is required")
	errNightMissing = errors.New("bar night not found")
)

var _ apiconnect.BarNightServiceHandler = (*NightService)(nil)

// EventSink receives audit events; audit.Worker implements it.
type EventSink interface {
	Enqueue(event audit.Event)
}

// NightService implements the Connect BarNightService.
type NightService struct {
	store   storage.Store
	events  EventSink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewNightService creates a NightService. events and m may be nil.
func NewNightService(store storage.Store, events EventSink, m *metrics.Metrics, logger *slog.Logger) *NightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NightService{
		store:   store,
		events:  events,
		metrics: m,
		logger:  logger,
	}
}

// ledger is the read model returned after every call: all nights and the
// balances derived from them.
type ledger struct {
	nights   []api.BarNight
	balances []api.Balance
}

// loadLedger fetches users and nights concurrently and recomputes balances.
// A failed fetch degrades to an empty list instead of failing the call.
func (s *NightService) loadLedger(ctx context.Context) ledger {
	var (
		g      errgroup.Group
		users  []models.User
		nights []models.BarNight
	)
	g.Go(func() error {
		var err error
		if users, err = s.store.ListUsers(ctx); err != nil {
			s.logger.Error("Failed to list users", "error", err)
			users = nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		if nights, err = s.store.ListBarNights(ctx); err != nil {
			s.logger.Error("Failed to list bar nights", "error", err)
			nights = nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Serving degraded ledger", "error", err)
	}

	balances := calculator.ComputeBalances(users, nights)
	s.metrics.NightsSeen(len(nights))

	return ledger{
		nights:   toAPINights(nights),
		balances: toAPIBalances(calculator.SortedBalances(users, balances)),
	}
}

// ListBarNights returns every night together with the current balances.
func (s *NightService) ListBarNights(ctx context.Context, req *connect.Request[api.ListBarNightsRequest]) (*connect.Response[api.ListBarNightsResponse], error) {
	l := s.loadLedger(ctx)
	return connect.NewResponse(&api.ListBarNightsResponse{
		Nights:   l.nights,
		Balances: l.balances,
	}), nil
}

// GetBalances returns the current balance of every user.
func (s *NightService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	l := s.loadLedger(ctx)
	return connect.NewResponse(&api.GetBalancesResponse{Balances: l.balances}), nil
}

// CreateBarNight records a new night for the authenticated user.
func (s *NightService) CreateBarNight(ctx context.Context, req *connect.Request[api.CreateBarNightRequest]) (*connect.Response[api.CreateBarNightResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}

	night, err := nightFromInput(req.Msg.Night)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	night.CreatedBy = userID
	if err := s.validateUsers(ctx, night); err != nil {
		return nil, err
	}

	if err := s.store.CreateBarNight(ctx, night); err != nil {
		s.logger.Error("Failed to create bar night", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errSaveFailed)
	}
	s.logger.Info("Bar night created",
		"night_id", night.ID,
		"user_id", userID,
		"total", night.TotalAmount,
		"participants", len(night.Participants),
		"items", len(night.Items),
	)
	s.recordWrite(audit.TypeNightCreated, metrics.WriteCreate, userID, night)

	l := s.loadLedger(ctx)
	return connect.NewResponse(&api.CreateBarNightResponse{
		ID:       night.ID,
		Nights:   l.nights,
		Balances: l.balances,
	}), nil
}

// UpdateBarNight replaces an existing night with the submitted data.
func (s *NightService) UpdateBarNight(ctx context.Context, req *connect.Request[api.UpdateBarNightRequest]) (*connect.Response[api.UpdateBarNightResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingID)
	}

	night, err := nightFromInput(req.Msg.Night)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	night.ID = req.Msg.ID
	if err := s.validateUsers(ctx, night); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBarNight(ctx, night); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errNightMissing)
		}
		s.logger.Error("Failed to update bar night", "night_id", night.ID, "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errSaveFailed)
	}
	s.logger.Info("Bar night updated", "night_id", night.ID, "user_id", userID, "total", night.TotalAmount)
	s.recordWrite(audit.TypeNightUpdated, metrics.WriteUpdate, userID, night)

	l := s.loadLedger(ctx)
	return connect.NewResponse(&api.UpdateBarNightResponse{
		Nights:   l.nights,
		Balances: l.balances,
	}), nil
}

// DeleteBarNight removes a night and everything attached to it.
func (s *NightService) DeleteBarNight(ctx context.Context, req *connect.Request[api.DeleteBarNightRequest]) (*connect.Response[api.DeleteBarNightResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingID)
	}

	if err := s.store.DeleteBarNight(ctx, req.Msg.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errNightMissing)
		}
		s.logger.Error("Failed to delete bar night", "night_id", req.Msg.ID, "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errDeleteFailed)
	}
	s.logger.Info("Bar night deleted", "night_id", req.Msg.ID, "user_id", userID)
	s.recordWrite(audit.TypeNightDeleted, metrics.WriteDelete, userID, map[string]string{"id": req.Msg.ID})

	l := s.loadLedger(ctx)
	return connect.NewResponse(&api.DeleteBarNightResponse{
		Nights:   l.nights,
		Balances: l.balances,
	}), nil
}

// ListUsers returns every user profile ordered by display name.
func (s *NightService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		users = nil
	}

	result := make([]api.User, len(users))
	for i := range users {
		result[i] = *toAPIUser(&users[i], false)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: result}), nil
}

// validateUsers checks every referenced user ID against the user list and
// returns a Connect error.
func (s *NightService) validateUsers(ctx context.Context, night *models.BarNight) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for validation", "error", err)
		return connect.NewError(connect.CodeInternal, errSaveFailed)
	}
	if err := checkUsers(night, users); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

func (s *NightService) recordWrite(eventType, kind, userID string, data any) {
	s.metrics.NightWrite(kind)
	if s.events == nil {
		return
	}
	s.events.Enqueue(audit.NewEvent(
		audit.WithType(eventType),
		audit.WithData(data),
		audit.WithMetadata("user_id", userID),
	))
}
