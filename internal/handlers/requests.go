package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/models"
	"github.com/AnshRaj112/studio-backend/internal/ranking"
	"github.com/AnshRaj112/studio-backend/internal/services"
	"github.com/AnshRaj112/studio-backend/internal/store"
	"github.com/google/uuid"
)

type CreateFeatureRequest struct {
	Title        string `json:"title" validate:"notblank,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	FeedbackType string `json:"feedback_type" validate:"feedback_type"`
	Priority     string `json:"priority" validate:"priority"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status" validate:"request_status"`
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

type SetEstimateRequest struct {
	EstimatedCost *float64 `json:"estimated_cost" validate:"required,gte=0"`
}

// RankedRequest is a feature request annotated with the ranking key it was
// ordered by: Score for the weighted-sum policy, Rank for the fixed table.
type RankedRequest struct {
	models.FeatureRequest
	Score *int `json:"score,omitempty"`
	Rank  *int `json:"rank,omitempty"`
}

type RequestListResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Policy   string          `json:"policy,omitempty"`
	Requests []RankedRequest `json:"requests"`
	Count    int             `json:"count"`
}

// rankRequests orders requests with p and attaches each one's ranking key.
func rankRequests(requests []models.FeatureRequest, p ranking.Policy) []RankedRequest {
	ranking.Sort(requests, p, func(r models.FeatureRequest) ranking.Item { return r.RankItem() })

	ranked := make([]RankedRequest, len(requests))
	for i := range requests {
		key := p.Key(requests[i].RankItem())
		ranked[i] = RankedRequest{FeatureRequest: requests[i]}
		if p.Name() == ranking.PolicyFixedRank {
			ranked[i].Rank = &key
		} else {
			ranked[i].Score = &key
		}
	}
	return ranked
}

func scored(r *models.FeatureRequest) RankedRequest {
	score := ranking.Score(r.Status, r.Tier, r.Priority)
	return RankedRequest{FeatureRequest: *r, Score: &score}
}

// scoreText renders the weighted-sum score for notification emails.
func scoreText(r *models.FeatureRequest) string {
	return fmt.Sprintf("Priority score: %d (tier %s +%d, priority %s +%d)",
		ranking.Score(r.Status, r.Tier, r.Priority),
		r.Tier, ranking.TierWeight(r.Tier),
		r.Priority, ranking.PriorityWeight(r.Priority))
}

func writeRequestList(w http.ResponseWriter, requests []models.FeatureRequest, p ranking.Policy) {
	ranked := rankRequests(requests, p)
	writeJSON(w, http.StatusOK, RequestListResponse{
		Success:  true,
		Policy:   p.Name(),
		Requests: ranked,
		Count:    len(ranked),
	})
}

func publishRequestEvent(ctx context.Context, eventType string, r *models.FeatureRequest) {
	err := services.PublishRequestEvent(ctx, services.RequestEvent{
		Type:      eventType,
		RequestID: r.ID.String(),
		ClientID:  r.ClientID.String(),
		Status:    r.Status,
		Score:     ranking.Score(r.Status, r.Tier, r.Priority),
	})
	if err != nil {
		log.Printf("publish %s for request %s: %v", eventType, r.ID, err)
	}
}

func recordActivity(r *models.FeatureRequest, actor, action, from, to, note string) {
	services.RecordActivityAsync(models.RequestActivity{
		CreatedAt: time.Now().UTC(),
		RequestID: r.ID.String(),
		ClientID:  r.ClientID.String(),
		Actor:     actor,
		Action:    action,
		From:      from,
		To:        to,
		Note:      note,
	})
}

func adminActor(ctx context.Context) string {
	id, _ := middleware.AdminID(ctx)
	return "admin:" + id.String()
}

// --- Client endpoints ---

// CreateRequest files a new request for the signed-in client. The client's
// tier at this moment is stored with the request.
func CreateRequest(w http.ResponseWriter, r *http.Request) {
	c, ok := currentClient(w, r)
	if !ok {
		return
	}
	var req CreateFeatureRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fr := &models.FeatureRequest{
		ClientID:      c.ID,
		ClientName:    c.Name,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		FeedbackType:  req.FeedbackType,
		Priority:      req.Priority,
		SubmittedTier: c.Tier,
	}
	if err := store.CreateRequest(r.Context(), fr); err != nil {
		log.Printf("create request: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit request")
		return
	}

	recordActivity(fr, "client:"+c.ID.String(), models.ActivityCreated, "", fr.Status, "")
	publishRequestEvent(r.Context(), services.EventRequestCreated, fr)

	if notifyEmail != "" {
		services.SendEmails(mailer, &services.EmailMessage{
			To:           []mail.Address{{Address: notifyEmail}},
			Subject:      fmt.Sprintf("New %s request from %s", fr.FeedbackType, c.Name),
			TemplateName: services.EmailNewRequest,
			TemplateData: map[string]interface{}{
				"ClientName":   c.Name,
				"Tier":         fr.Tier,
				"FeedbackType": fr.FeedbackType,
				"Title":        fr.Title,
				"Priority":     fr.Priority,
				"Description":  fr.Description,
				"ScoreText":    scoreText(fr),
			},
		})
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Request submitted",
		"request": scored(fr),
	})
}

// GetClientRequests lists the signed-in client's requests by weighted score.
func GetClientRequests(w http.ResponseWriter, r *http.Request) {
	clientID, _ := middleware.ClientID(r.Context())

	requests, err := store.ListRequests(r.Context(), store.RequestFilter{ClientID: clientID}, store.TierCurrent)
	if err != nil {
		log.Printf("list client requests: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}
	writeRequestList(w, requests, ranking.WeightedSum)
}

// ApproveEstimate accepts the admin's estimate on one of the client's
// feature requests.
func ApproveEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Request")
	if !ok {
		return
	}
	clientID, _ := middleware.ClientID(r.Context())

	amount, err := store.ApproveEstimate(r.Context(), id, clientID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Request not found or has no estimate")
		return
	}
	if err != nil {
		log.Printf("approve estimate: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to approve estimate")
		return
	}

	fr, err := store.GetRequest(r.Context(), id, store.TierCurrent)
	if err == nil {
		recordActivity(fr, "client:"+clientID.String(), models.ActivityEstimateApproved, "", fmt.Sprintf("%.2f", amount), "")
		publishRequestEvent(r.Context(), services.EventRequestUpdated, fr)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Estimate approved",
		"approved_cost": amount,
	})
}

// --- Admin endpoints ---

// GetAdminRequests lists every request by weighted score using each client's
// current tier. Optional filters: status, client_id.
func GetAdminRequests(w http.ResponseWriter, r *http.Request) {
	filter, ok := requestFilter(w, r)
	if !ok {
		return
	}
	requests, err := store.ListRequests(r.Context(), filter, store.TierCurrent)
	if err != nil {
		log.Printf("list requests: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}
	writeRequestList(w, requests, ranking.WeightedSum)
}

// GetRequestQueue is the triage queue: the fixed rank table applied to the
// tier each request was submitted under.
func GetRequestQueue(w http.ResponseWriter, r *http.Request) {
	filter, ok := requestFilter(w, r)
	if !ok {
		return
	}
	requests, err := store.ListRequests(r.Context(), filter, store.TierSubmitted)
	if err != nil {
		log.Printf("list request queue: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}
	writeRequestList(w, requests, ranking.FixedRankTable)
}

func requestFilter(w http.ResponseWriter, r *http.Request) (store.RequestFilter, bool) {
	var f store.RequestFilter
	q := r.URL.Query()

	if status := strings.ToLower(strings.TrimSpace(q.Get("status"))); status != "" {
		if !models.IsValidStatus(status) {
			writeError(w, http.StatusBadRequest, "status must be one of "+strings.Join(models.Statuses, ", "))
			return f, false
		}
		f.Status = status
	}
	if raw := strings.TrimSpace(q.Get("client_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid client ID")
			return f, false
		}
		f.ClientID = id
	}
	return f, true
}

// UpdateRequestStatus moves a request through its lifecycle (admin only).
func UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Request")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	previous, err := store.UpdateRequestStatus(r.Context(), id, req.Status, strings.TrimSpace(req.AdminNotes))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		log.Printf("update request status: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	fr, err := store.GetRequest(r.Context(), id, store.TierCurrent)
	if err != nil {
		log.Printf("reload request %s: %v", id, err)
		writeMessage(w, http.StatusOK, "Status updated")
		return
	}

	recordActivity(fr, adminActor(r.Context()), models.ActivityStatusChanged, previous, fr.Status, req.AdminNotes)
	publishRequestEvent(r.Context(), services.EventRequestUpdated, fr)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Status updated",
		"request": scored(fr),
	})
}

// SetEstimate records a cost estimate on a feature request (admin only).
func SetEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Request")
	if !ok {
		return
	}
	var req SetEstimateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fr, err := store.GetRequest(r.Context(), id, store.TierCurrent)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	if err != nil {
		log.Printf("get request: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load request")
		return
	}
	if !fr.IsEstimable() {
		writeError(w, http.StatusBadRequest, "Only feature requests can be estimated")
		return
	}

	if err := store.SetEstimate(r.Context(), id, *req.EstimatedCost); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Request not found")
			return
		}
		log.Printf("set estimate: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save estimate")
		return
	}
	fr.EstimatedCost = req.EstimatedCost
	fr.ApprovedCost = nil

	recordActivity(fr, adminActor(r.Context()), models.ActivityEstimated, "", fmt.Sprintf("%.2f", *req.EstimatedCost), "")
	publishRequestEvent(r.Context(), services.EventRequestUpdated, fr)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Estimate saved",
		"request": scored(fr),
	})
}

// GetRequestActivity returns a request's timeline (admin only).
func GetRequestActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUUID(w, r, "id", "Request")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	activity, err := services.ListActivity(ctx, id.String())
	if err != nil {
		log.Printf("list activity: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch activity")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"activity": activity,
	})
}
