// handlers_work.go - Work status handlers
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/insights"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/labstack/echo/v4"
)

// WorkHandlerImpl implements the WorkHandler interface
type WorkHandlerImpl struct {
	store    WorkStore
	notifier Notifier
	now      func() time.Time
}

// NewWorkHandler creates a new work status handler
func NewWorkHandler(store WorkStore, notifier Notifier) *WorkHandlerImpl {
	return &WorkHandlerImpl{store: store, notifier: notifier, now: time.Now}
}

// HandleListWork returns domains with members and their statuses
func (h *WorkHandlerImpl) HandleListWork(c echo.Context) error {
	domains, err := h.store.ListDomains(c.Request().Context(), c.QueryParam("weekStart"))
	if err != nil {
		return NewInternalError("failed to fetch work status", err)
	}
	return c.JSON(http.StatusOK, domains)
}

type createWorkRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`

	// domain
	IconName string `json:"iconName"`
	Color    string `json:"color"`
	BgColor  string `json:"bgColor"`

	// member
	Email          string  `json:"email"`
	DomainID       string  `json:"domainId"`
	SlackChannelID *string `json:"slackChannelId"`
}

// HandleCreateWork creates a domain when type is "domain", otherwise a
// team member
func (h *WorkHandlerImpl) HandleCreateWork(c echo.Context) error {
	var req createWorkRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name")
	}
	ctx := c.Request().Context()

	if req.Type == "domain" {
		d := models.WorkDomain{
			ID:       req.ID,
			Name:     req.Name,
			IconName: req.IconName,
			Color:    req.Color,
			BgColor:  req.BgColor,
		}
		if err := h.store.CreateDomain(ctx, &d); err != nil {
			return NewInternalError("failed to create entry", err)
		}
		h.publish("domain:created", d.ID)
		return c.JSON(http.StatusCreated, d)
	}

	if req.DomainID == "" {
		return NewValidationError("domainId")
	}
	m := models.TeamMember{
		ID:             req.ID,
		Name:           req.Name,
		Email:          req.Email,
		DomainID:       req.DomainID,
		SlackChannelID: req.SlackChannelID,
	}
	if err := h.store.CreateMember(ctx, &m); err != nil {
		return storeError(err, "domain", req.DomainID, "failed to create entry")
	}
	h.publish("member:created", m.ID)
	return c.JSON(http.StatusCreated, m)
}

type updateWorkRequest struct {
	MemberID  string `json:"memberId"`
	WeekStart string `json:"weekStart"`
	models.MemberPatch
	models.StatusPatch
}

// HandleUpdateWork updates member details when any are given, otherwise
// saves the member's status for weekStart
func (h *WorkHandlerImpl) HandleUpdateWork(c echo.Context) error {
	var req updateWorkRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.MemberID == "" {
		return NewValidationError("memberId")
	}
	ctx := c.Request().Context()

	if !req.MemberPatch.Empty() {
		m, err := h.store.UpdateMember(ctx, req.MemberID, &req.MemberPatch)
		if err != nil {
			return storeError(err, "team member", req.MemberID, "failed to update")
		}
		h.publish("member:updated", m.ID)
		return c.JSON(http.StatusOK, m)
	}

	if _, err := calendar.ParseDate(req.WeekStart); err != nil {
		return NewValidationError("weekStart")
	}
	st, err := h.store.SaveWeeklyStatus(ctx, req.MemberID, req.WeekStart, &req.StatusPatch)
	if err != nil {
		return storeError(err, "team member", req.MemberID, "failed to update")
	}
	h.publish("status:saved", st.ID)
	return c.JSON(http.StatusOK, st)
}

// HandleDeleteMember removes a member and all of its statuses
func (h *WorkHandlerImpl) HandleDeleteMember(c echo.Context) error {
	id := c.QueryParam("memberId")
	if id == "" {
		return NewBadRequestError("Member ID is required", nil)
	}
	if err := h.store.DeleteMember(c.Request().Context(), id); err != nil {
		return storeError(err, "team member", id, "failed to delete team member")
	}
	h.publish("member:deleted", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Team member deleted successfully"})
}

// HandleQuarter returns the reporting grid of the quarter containing date
// (default today)
func (h *WorkHandlerImpl) HandleQuarter(c echo.Context) error {
	day := h.now()
	if v := c.QueryParam("date"); v != "" {
		d, err := calendar.ParseDate(v)
		if err != nil {
			return NewValidationError("date")
		}
		day = d
	}
	q := calendar.QuarterOf(day)
	weeks := q.Weeks(day.Location())

	ctx := c.Request().Context()
	domains, err := h.store.ListDomains(ctx, calendar.Key(weeks[0]))
	if err != nil {
		return NewInternalError("failed to fetch work status", err)
	}
	statuses, err := h.store.ListStatusesBetween(ctx, calendar.Key(weeks[0]), calendar.Key(weeks[len(weeks)-1]))
	if err != nil {
		return NewInternalError("failed to fetch weekly statuses", err)
	}

	return c.JSON(http.StatusOK, insights.QuarterGrid(q, domains, statuses, day.Location()))
}

func (h *WorkHandlerImpl) publish(action, id string) {
	if h.notifier != nil {
		h.notifier.Publish(EventWorkChanged, map[string]string{"action": action, "id": id})
	}
}
