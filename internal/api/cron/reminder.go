package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/service"
)

// ReminderCronHandler handles the payment reminder cron job.
type ReminderCronHandler struct {
	reminderService service.ReminderService
	logger          *logger.Logger
}

func NewReminderCronHandler(
	reminderService service.ReminderService,
	logger *logger.Logger,
) *ReminderCronHandler {
	return &ReminderCronHandler{
		reminderService: reminderService,
		logger:          logger,
	}
}

// SendReminders sweeps all users for overdue unpaid invoices and emails
// payment reminders, honoring the per-invoice cooldown.
func (h *ReminderCronHandler) SendReminders(c *gin.Context) {
	h.logger.Infow("starting payment reminder cron job", "time", time.Now().UTC().Format(time.RFC3339))

	result, err := h.reminderService.SendDueReminders(c.Request.Context())
	if err != nil {
		h.logger.Errorw("payment reminder cron job failed", "error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed payment reminder cron job",
		"reminders_sent", result.RemindersSent,
		"failed", result.Failed)
	c.JSON(http.StatusOK, gin.H{"status": "success", "result": result})
}
