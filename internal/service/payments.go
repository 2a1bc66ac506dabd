package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/pricing"
	"github.com/sirupsen/logrus"
)

// PurchaseCredits opens a pending payment for req.Credits credits.
func (s *DefaultService) PurchaseCredits(
	ctx context.Context,
	userID string,
	req models.PurchaseCreditsRequest,
) (*models.PaymentResponse, error) {
	if req.Credits <= 0 {
		return nil, models.NewValidationError("credits", "credits must be positive")
	}

	payment := &models.Payment{
		UserID:  userID,
		Credits: req.Credits,
		Amount:  pricing.CreditsCost(req.Credits, s.creditPrice).StringFixed(2),
		Status:  models.PaymentPending,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("error creating payment: %w", err)
	}

	return &models.PaymentResponse{Status: "success", Payment: payment}, nil
}

func (s *DefaultService) ListPayments(ctx context.Context, userID string) (*models.PaymentListResponse, error) {
	payments, err := s.repo.ListPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}

	return &models.PaymentListResponse{Status: "success", Payments: payments}, nil
}

// CompletePayment settles a pending payment and adds its credits to the
// buyer's balance. Only the payment provider calls it, so it is keyed by
// payment id alone.
func (s *DefaultService) CompletePayment(
	ctx context.Context,
	paymentID string,
	req models.CompletePaymentRequest,
) (*models.PaymentResponse, error) {
	if err := s.pendingPayment(ctx, paymentID); err != nil {
		return nil, err
	}

	payment, err := s.repo.CompletePayment(ctx, paymentID, strings.TrimSpace(req.ProviderPaymentID))
	if err != nil {
		return nil, fmt.Errorf("error completing payment: %w", err)
	}

	s.log.ForUser(payment.UserID).WithFields(logrus.Fields{
		"payment": payment.ID,
		"credits": payment.Credits,
	}).Info("credits purchased")

	return &models.PaymentResponse{Status: "success", Payment: payment}, nil
}

func (s *DefaultService) FailPayment(ctx context.Context, paymentID string) (*models.PaymentResponse, error) {
	if err := s.pendingPayment(ctx, paymentID); err != nil {
		return nil, err
	}

	payment, err := s.repo.FailPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("error failing payment: %w", err)
	}

	s.log.ForUser(payment.UserID).WithField("payment", payment.ID).Info("payment failed")

	return &models.PaymentResponse{Status: "success", Payment: payment}, nil
}

// pendingPayment reports an unknown payment as not found. The state check
// itself happens in the repository transition.
func (s *DefaultService) pendingPayment(ctx context.Context, paymentID string) error {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("error getting payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("payment %w", ErrNotFound)
	}
	return nil
}
