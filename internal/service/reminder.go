package service

import (
	"context"
	"time"

	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	"github.com/billkazi/billkazi/internal/types"
)

// ReminderService runs the payment reminder sweep: every unpaid invoice past
// its due date gets a reminder email, throttled per invoice by the
// configured cooldown.
type ReminderService interface {
	SendDueReminders(ctx context.Context) (*ReminderRunResult, error)
}

// ReminderRunResult summarizes one sweep.
type ReminderRunResult struct {
	UsersScanned    int `json:"users_scanned"`
	OverdueInvoices int `json:"overdue_invoices"`
	RemindersSent   int `json:"reminders_sent"`
	Skipped         int `json:"skipped"`
	Failed          int `json:"failed"`
}

type reminderService struct {
	ServiceParams
}

func NewReminderService(params ServiceParams) ReminderService {
	return &reminderService{ServiceParams: params}
}

func (s *reminderService) SendDueReminders(ctx context.Context) (*ReminderRunResult, error) {
	userIDs, err := s.UserRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &ReminderRunResult{UsersScanned: len(userIDs)}

	for _, userID := range userIDs {
		// Repositories scope every query to the user on the context.
		userCtx := context.WithValue(ctx, types.CtxUserID, userID)
		if err := s.remindUser(userCtx, userID, now, result); err != nil {
			s.Logger.Errorw("reminder sweep failed for user", "user_id", userID, "error", err)
			result.Failed++
		}
	}

	s.Logger.Infow("reminder sweep finished",
		"users_scanned", result.UsersScanned,
		"overdue_invoices", result.OverdueInvoices,
		"reminders_sent", result.RemindersSent,
		"skipped", result.Skipped,
		"failed", result.Failed)
	return result, nil
}

func (s *reminderService) remindUser(ctx context.Context, userID string, now time.Time, result *ReminderRunResult) error {
	owner, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	// One page per sweep; anything past the cap is picked up on the next run.
	overdue, err := s.InvoiceRepo.List(ctx, &domainInvoice.Filter{
		PaginationParams: types.PaginationParams{Limit: types.PaginationMaxLimit},
		PaymentStatus:    types.PaymentStatusUnpaid,
		DueBefore:        &now,
	})
	if err != nil {
		return err
	}

	cooldown := s.Config.Invoice.ReminderCooldown
	for _, inv := range overdue {
		result.OverdueInvoices++

		if inv.Client.Email == "" {
			result.Skipped++
			continue
		}
		if inv.LastReminderAt != nil && now.Sub(*inv.LastReminderAt) < cooldown {
			result.Skipped++
			continue
		}

		data := buildInvoiceEmailData(inv, owner, buildShareURL(s.Config.Server.PublicBaseURL, inv.ShareToken))
		if err := s.Email.SendPaymentReminder(ctx, inv.Client.Email, data); err != nil {
			s.Logger.Errorw("failed to send payment reminder",
				"invoice_id", inv.ID,
				"number", inv.Number,
				"error", err)
			result.Failed++
			continue
		}

		inv.LastReminderAt = &now
		if _, err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			s.Logger.Errorw("failed to record reminder timestamp",
				"invoice_id", inv.ID,
				"error", err)
			result.Failed++
			continue
		}
		result.RemindersSent++
	}
	return nil
}
