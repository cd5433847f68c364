package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

// Payment sources
const (
	PaymentSourceOrder   = "order"
	PaymentSourceBooking = "booking"
)

// PaymentVerification is what the checkout widget hands back after a successful payment
type PaymentVerification struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	TargetID       uint
}

// PaymentService records verified payments and refunds
type PaymentService struct {
	db        *gorm.DB
	gateway   *RazorpayService
	publisher events.Publisher
}

func NewPaymentService(db *gorm.DB, gateway *RazorpayService, publisher events.Publisher) *PaymentService {
	if publisher == nil {
		publisher = events.Nop
	}
	return &PaymentService{
		db:        db,
		gateway:   gateway,
		publisher: publisher,
	}
}

// VerifyOrderPayment checks the signature and marks the order paid
func (s *PaymentService) VerifyOrderPayment(ctx context.Context, who utils.Identity, v PaymentVerification) error {
	return s.verify(ctx, who, v, PaymentSourceOrder)
}

// VerifyBookingPayment checks the signature and marks the booking paid
func (s *PaymentService) VerifyBookingPayment(ctx context.Context, who utils.Identity, v PaymentVerification) error {
	return s.verify(ctx, who, v, PaymentSourceBooking)
}

func (s *PaymentService) verify(ctx context.Context, who utils.Identity, v PaymentVerification, source string) error {
	if !s.gateway.VerifySignature(v.GatewayOrderID, v.PaymentID, v.Signature) {
		utils.InfoLogger.Warnf("Rejected %s payment %s: signature mismatch", source, v.PaymentID)
		return utils.ErrInvalidSignature
	}

	model, key, notFound := paymentTarget(source)
	query := s.db.WithContext(ctx).Model(model).Where(key+" = ?", v.TargetID)
	if !who.IsAdmin() {
		query = query.Where("customer_id = ?", who.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return utils.ErrServer(fmt.Errorf("lookup %s %d: %w", source, v.TargetID, err))
	}
	if count == 0 {
		return utils.ErrNotFound(notFound)
	}

	err := s.db.WithContext(ctx).Model(model).Where(key+" = ?", v.TargetID).Updates(map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
		"payment_id":     v.PaymentID,
		"payment_method": models.PaymentMethodRazorpay,
	}).Error
	if err != nil {
		return utils.ErrServer(fmt.Errorf("mark %s %d paid: %w", source, v.TargetID, err))
	}

	utils.InfoLogger.Infof("Payment %s verified for %s %d", v.PaymentID, source, v.TargetID)
	s.publisher.Publish(ctx, events.New(events.EventPaymentVerified, source+"-"+strconv.FormatUint(uint64(v.TargetID), 10), map[string]interface{}{
		"source":     source,
		"source_id":  v.TargetID,
		"payment_id": v.PaymentID,
	}))
	return nil
}

// RefundPayment refunds through the gateway and flags every order and booking paid with it
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID string, amount int64) (map[string]interface{}, error) {
	refund, err := s.gateway.Refund(ctx, paymentID, amount)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Order{}, &models.Booking{}} {
			if err := tx.Model(model).Where("payment_id = ?", paymentID).
				Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// the gateway already refunded; the local flag is only bookkeeping
		utils.ErrorLogger.Errorf("Refund %s succeeded but local status update failed: %v", paymentID, err)
	}

	rupees := utils.FromMinorUnits(amount)
	utils.InfoLogger.Infof("Payment %s refunded (%.2f)", paymentID, rupees)
	s.publisher.Publish(ctx, events.New(events.EventPaymentRefunded, paymentID, map[string]interface{}{
		"payment_id":    paymentID,
		"amount":        amount,
		"amount_rupees": rupees,
	}))
	return refund, nil
}

func paymentTarget(source string) (model interface{}, key string, notFound string) {
	if source == PaymentSourceBooking {
		return &models.Booking{}, "booking_id", "Booking not found"
	}
	return &models.Order{}, "oid", "Order not found"
}
