// handlers_health_log.go - Health entry handlers
package api

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/insights"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/parser"
	"github.com/amimagid/ami-super-app/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the content type of msgpack responses.
const MIMEApplicationMsgpack = "application/msgpack"

// HealthLogHandlerImpl implements the HealthLogHandler interface
type HealthLogHandlerImpl struct {
	store    HealthStore
	notifier Notifier
	now      func() time.Time
}

// NewHealthLogHandler creates a new health log handler
func NewHealthLogHandler(store HealthStore, notifier Notifier) *HealthLogHandlerImpl {
	return &HealthLogHandlerImpl{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// HandleListEntries returns entries newest first, as JSON or msgpack
// depending on the Accept header
func (h *HealthLogHandlerImpl) HandleListEntries(c echo.Context) error {
	entries, err := h.list(c)
	if err != nil {
		return err
	}
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEApplicationMsgpack) {
		return respondMsgpack(c, entries)
	}
	return c.JSON(http.StatusOK, entries)
}

// HandleListEntriesMsgpack always returns msgpack
func (h *HealthLogHandlerImpl) HandleListEntriesMsgpack(c echo.Context) error {
	entries, err := h.list(c)
	if err != nil {
		return err
	}
	return respondMsgpack(c, entries)
}

func (h *HealthLogHandlerImpl) list(c echo.Context) ([]models.HealthEntry, error) {
	f := storage.HealthFilter{From: c.QueryParam("from"), To: c.QueryParam("to")}
	for field, v := range map[string]string{"from": f.From, "to": f.To} {
		if v == "" {
			continue
		}
		if _, err := calendar.ParseDate(v); err != nil {
			return nil, NewValidationError(field)
		}
	}

	entries, err := h.store.ListHealthEntries(c.Request().Context(), f)
	if err != nil {
		return nil, NewInternalError("failed to fetch health entries", err)
	}
	return entries, nil
}

// respondMsgpack encodes v with the JSON field names
func respondMsgpack(c echo.Context, v any) error {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, MIMEApplicationMsgpack, buf.Bytes())
}

// HandleGetEntry returns one entry
func (h *HealthLogHandlerImpl) HandleGetEntry(c echo.Context) error {
	id := c.Param("id")
	e, err := h.store.GetHealthEntry(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "health entry", id, "failed to fetch health entry")
	}
	return c.JSON(http.StatusOK, e)
}

// HandleCreateEntry stores a new entry
func (h *HealthLogHandlerImpl) HandleCreateEntry(c echo.Context) error {
	var e models.HealthEntry
	if err := c.Bind(&e); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	e.Date = strings.TrimSpace(e.Date)
	for _, f := range []**string{
		&e.BPAMRight, &e.BPAMLeft, &e.BPAMTime, &e.BPAMNotes,
		&e.BPPMRight, &e.BPPMLeft, &e.BPPMTime, &e.BPPMNotes, &e.Workout,
	} {
		if *f != nil && strings.TrimSpace(**f) == "" {
			*f = nil
		}
	}
	if e.Date == "" {
		return NewValidationError("date")
	}
	if err := validateEntry(&e); err != nil {
		return err
	}

	if err := h.store.CreateHealthEntry(c.Request().Context(), &e); err != nil {
		return NewInternalError("failed to create health entry", err)
	}
	h.publish(EventHealthChanged, map[string]string{"action": "created", "id": e.ID})
	return c.JSON(http.StatusCreated, e)
}

// HandleUpdateEntry applies a partial update
func (h *HealthLogHandlerImpl) HandleUpdateEntry(c echo.Context) error {
	id := c.Param("id")
	var patch models.HealthEntryPatch
	if err := c.Bind(&patch); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	for _, o := range []*models.Optional[string]{
		&patch.BPAMRight, &patch.BPAMLeft, &patch.BPAMTime, &patch.BPAMNotes,
		&patch.BPPMRight, &patch.BPPMLeft, &patch.BPPMTime, &patch.BPPMNotes, &patch.Workout,
	} {
		if o.Value != nil && strings.TrimSpace(*o.Value) == "" {
			o.Value = nil
		}
	}
	if patch.Date.Set && (patch.Date.Value == nil || *patch.Date.Value == "") {
		return NewValidationError("date")
	}
	probe := models.HealthEntry{Date: "2000-01-01"}
	patch.Apply(&probe)
	if err := validateEntry(&probe); err != nil {
		return err
	}

	e, err := h.store.UpdateHealthEntry(c.Request().Context(), id, &patch)
	if err != nil {
		return storeError(err, "health entry", id, "failed to update health entry")
	}
	h.publish(EventHealthChanged, map[string]string{"action": "updated", "id": id})
	return c.JSON(http.StatusOK, e)
}

// HandleDeleteEntry removes one entry
func (h *HealthLogHandlerImpl) HandleDeleteEntry(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.DeleteHealthEntry(c.Request().Context(), id); err != nil {
		return storeError(err, "health entry", id, "failed to delete health entry")
	}
	h.publish(EventHealthChanged, map[string]string{"action": "deleted", "id": id})
	return c.JSON(http.StatusOK, map[string]string{"message": "Health entry deleted successfully"})
}

// HandleSummary returns BP averages and insights over all entries
func (h *HealthLogHandlerImpl) HandleSummary(c echo.Context) error {
	entries, err := h.store.ListHealthEntries(c.Request().Context(), storage.HealthFilter{})
	if err != nil {
		return NewInternalError("failed to fetch health entries", err)
	}

	summary := models.HealthSummary{
		TotalEntries: len(entries),
		BPAverages:   insights.Averages(entries, h.now()),
		Insights:     insights.Compute(entries),
	}
	if len(entries) > 0 {
		summary.NewestDate = entries[0].Date
		summary.OldestDate = entries[len(entries)-1].Date
	}
	return c.JSON(http.StatusOK, summary)
}

// HandleBPChart returns blood pressure chart points
func (h *HealthLogHandlerImpl) HandleBPChart(c echo.Context) error {
	r, err := insights.ParseRange(c.QueryParam("range"))
	if err != nil {
		return NewBadRequestError("invalid range", err)
	}
	arm, err := insights.ParseArm(c.QueryParam("arm"))
	if err != nil {
		return NewBadRequestError("invalid arm", err)
	}

	entries, err := h.store.ListHealthEntries(c.Request().Context(), storage.HealthFilter{})
	if err != nil {
		return NewInternalError("failed to fetch health entries", err)
	}
	return c.JSON(http.StatusOK, insights.BPSeries(entries, r, arm, h.now()))
}

// HandleWeightChart returns weight chart points
func (h *HealthLogHandlerImpl) HandleWeightChart(c echo.Context) error {
	r, err := insights.ParseRange(c.QueryParam("range"))
	if err != nil {
		return NewBadRequestError("invalid range", err)
	}

	entries, err := h.store.ListHealthEntries(c.Request().Context(), storage.HealthFilter{})
	if err != nil {
		return NewInternalError("failed to fetch health entries", err)
	}
	return c.JSON(http.StatusOK, insights.WeightSeries(entries, r, h.now()))
}

func (h *HealthLogHandlerImpl) publish(eventType string, payload any) {
	if h.notifier != nil {
		h.notifier.Publish(eventType, payload)
	}
}

// validateEntry checks the date key and the two times of day.
func validateEntry(e *models.HealthEntry) *APIError {
	if _, err := calendar.ParseDate(e.Date); err != nil {
		return NewValidationError("date")
	}
	if e.BPAMTime != nil && !parser.ValidTime(*e.BPAMTime) {
		return NewValidationError("bpAMTime")
	}
	if e.BPPMTime != nil && !parser.ValidTime(*e.BPPMTime) {
		return NewValidationError("bpPMTime")
	}
	return nil
}
