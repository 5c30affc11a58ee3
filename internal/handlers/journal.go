package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crucial707/trade-journal/internal/models"
	"github.com/crucial707/trade-journal/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const dateTimeMessage = "must be an ISO-8601 date-time"

type JournalHandler struct {
	Journal *service.JournalService
	Log     zerolog.Logger
}

//
// ==========================
// Create Entry
// ==========================
//

// CreateEntry answers any failure with a bodiless 400.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	entry, err := h.Journal.CreateEntry(r.Context(), req)
	if err != nil {
		h.Log.Error().Err(err).Str("user_id", req.UserID).Msg("create entry failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

//
// ==========================
// Get Entry By ID
// ==========================
//

func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.Journal.GetEntryByID(r.Context(), id)
	if errors.Is(err, service.ErrEntryNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Int64("id", id).Msg("get entry failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

//
// ==========================
// Update Entry (full replace)
// ==========================
//

func (h *JournalHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	entry, err := h.Journal.UpdateEntry(r.Context(), id, req)
	if errors.Is(err, service.ErrEntryNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Int64("id", id).Msg("update entry failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

//
// ==========================
// Delete Entry
// ==========================
//

func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	deleted, err := h.Journal.DeleteEntry(r.Context(), id)
	if err != nil {
		h.Log.Error().Err(err).Int64("id", id).Msg("delete entry failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if !deleted {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Listings
// ==========================
//

func (h *JournalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userId")
	if !ok {
		return
	}
	entries, err := h.Journal.AllEntriesByUserID(r.Context(), userID)
	h.writeEntries(w, entries, err)
}

func (h *JournalHandler) ListBySymbol(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userId")
	if !ok {
		return
	}
	symbol, ok := pathParam(w, r, "symbol")
	if !ok {
		return
	}
	entries, err := h.Journal.EntriesByUserIDAndSymbol(r.Context(), userID, symbol)
	h.writeEntries(w, entries, err)
}

// ListByDateRange reads inclusive startDate and endDate query parameters.
func (h *JournalHandler) ListByDateRange(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userId")
	if !ok {
		return
	}

	q := r.URL.Query()
	start, err := models.ParseLocalTime(q.Get("startDate"))
	if err != nil {
		JSONValidationError(w, "invalid date range", map[string]string{"startDate": dateTimeMessage}, http.StatusBadRequest)
		return
	}
	end, err := models.ParseLocalTime(q.Get("endDate"))
	if err != nil {
		JSONValidationError(w, "invalid date range", map[string]string{"endDate": dateTimeMessage}, http.StatusBadRequest)
		return
	}

	entries, err := h.Journal.EntriesByUserIDAndDateRange(r.Context(), userID, start, end)
	h.writeEntries(w, entries, err)
}

func (h *JournalHandler) writeEntries(w http.ResponseWriter, entries []models.JournalEntry, err error) {
	if err != nil {
		h.Log.Error().Err(err).Msg("list entries failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

//
// ==========================
// Stats
// ==========================
//

func (h *JournalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userId")
	if !ok {
		return
	}

	count, err := h.Journal.EntryCountByUserID(r.Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Str("user_id", userID).Msg("count entries failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	total, err := h.Journal.TotalPnlByUserID(r.Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Str("user_id", userID).Msg("sum pnl failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	stats := models.EntryStats{EntryCount: count}
	if total != nil {
		stats.TotalPnl = *total
	}
	writeJSON(w, http.StatusOK, stats)
}

// Health is the journal slice's own liveness probe.
func (h *JournalHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "Journal Backend"})
}

// decodeEntry writes a bare 400 and returns false when the body is not a valid entry.
func (h *JournalHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (models.JournalEntryRequest, bool) {
	var req models.JournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Log.Warn().Err(err).Msg("malformed entry body")
		w.WriteHeader(http.StatusBadRequest)
		return req, false
	}
	if err := req.Validate(); err != nil {
		ev := h.Log.Warn()
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				ev = ev.Str(fe.Field(), fe.Tag())
			}
		}
		ev.Msg("invalid entry")
		w.WriteHeader(http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// pathParam returns a decoded chi URL parameter. chi matches against
// RawPath when the request carries escapes such as %40 or %2F, so the
// value is unescaped only in that case.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, true
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		JSONError(w, "invalid "+name, http.StatusBadRequest)
		return "", false
	}
	return decoded, true
}

func entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, "invalid entry id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
