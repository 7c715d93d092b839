package handlers

import (
	"context"

	"parcelbee/internal/domain"
	"parcelbee/internal/service/admin"
	"parcelbee/internal/service/auth"
	"parcelbee/internal/service/delivery"
	"parcelbee/internal/service/pricing"
)

type authUsecase interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

// NewAuthUsecase wires an auth.Service into an authUsecase.
func NewAuthUsecase(svc *auth.Service) authUsecase {
	return svc
}

type deliveryUsecase interface {
	Create(ctx context.Context, p domain.Principal, in domain.NewDeliveryRequest) (*domain.DeliveryRequest, error)
	ListFor(ctx context.Context, p domain.Principal, filter domain.PartnerFilter) ([]domain.DeliveryView, error)
	Detail(ctx context.Context, p domain.Principal, id int64) (*domain.DeliveryView, error)
	Accept(ctx context.Context, p domain.Principal, id int64) (*domain.DeliveryRequest, error)
	UpdateStatus(ctx context.Context, p domain.Principal, id int64, next domain.DeliveryStatus) (*domain.DeliveryRequest, error)
}

// NewDeliveryUsecase wires a delivery.Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type adminUsecase interface {
	Overview(ctx context.Context) (domain.Overview, error)
}

// NewAdminUsecase wires an admin.Service into an adminUsecase.
func NewAdminUsecase(svc *admin.Service) adminUsecase {
	return svc
}

type priceEstimator interface {
	Estimate(ctx context.Context, req pricing.Request) (pricing.Estimate, error)
}

// NewPriceEstimator wires a pricing.Estimator into a priceEstimator.
func NewPriceEstimator(e *pricing.Estimator) priceEstimator {
	return e
}
