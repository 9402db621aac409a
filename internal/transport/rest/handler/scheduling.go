package handler

import "net/http"

// Scheduling through the API was replaced by the direct booking link.

// ScheduleMeeting handles POST /api/schedule_meeting
// @Summary Disabled meeting booking
// @Produce json
// @Failure 410 {object} map[string]string
// @Router /api/schedule_meeting [post]
func ScheduleMeeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusGone, map[string]string{
		"status":  "gone",
		"message": "Agendamento via API desativado. Use o link direto do Cal.com.",
	})
}

// CalWebhook handles POST /api/webhook/cal
// @Summary Disabled booking webhook
// @Produce json
// @Failure 410 {object} map[string]string
// @Router /api/webhook/cal [post]
func CalWebhook(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusGone, map[string]string{
		"status":  "gone",
		"message": "Webhook do Cal.com desativado.",
	})
}
