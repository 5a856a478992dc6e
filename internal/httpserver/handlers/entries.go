package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xolan/logbook/internal/entry"
	"github.com/xolan/logbook/internal/filter"
	"github.com/xolan/logbook/internal/httpserver/deps"
	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/service"
	"github.com/xolan/logbook/internal/timeutil"
)

// maxBodyBytes bounds request bodies; an entry is a few hundred bytes.
const maxBodyBytes = 1 << 20

type listResponse struct {
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	Entries      []entry.Entry `json:"entries"`
	TotalSeconds int64         `json:"total_seconds"`
}

// ListEntries answers GET /api/entries?from=&to=&category=&keyword= with
// the entries intersecting [from, to), clipped to it. from and to accept
// RFC 3339, "YYYY-MM-DD HH:MM" or a clock time on the current day; they
// default to the current day.
func ListEntries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		now := d.Entry.Now()
		window := timeutil.Today(now)

		if v := q.Get("from"); v != "" {
			t, err := timeutil.ParseInstant(v, now)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid from: %v", err))
				return
			}
			window.Start = t
		}
		if v := q.Get("to"); v != "" {
			t, err := timeutil.ParseInstant(v, now)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid to: %v", err))
				return
			}
			window.End = t
		}
		if window.Empty() {
			writeError(w, http.StatusBadRequest, "from must be before to")
			return
		}

		entries, err := d.Entry.Intersect(r.Context(), window)
		if err != nil {
			writeServiceError(w, d.Logger, err)
			return
		}
		entries = filter.FilterEntries(entries, filter.NewFilter(q.Get("keyword"), q.Get("category")))

		var total time.Duration
		for _, e := range entries {
			total += e.Duration()
		}
		writeJSON(w, http.StatusOK, listResponse{
			From:         window.Start,
			To:           window.End,
			Entries:      entries,
			TotalSeconds: int64(total / time.Second),
		})
	}
}

// CreateEntry answers POST /api/entries. The body is an entry in its JSON
// form; overlapping stored entries yields 409 with the conflicts.
func CreateEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in entry.Entry
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid entry: %v", err))
			return
		}

		created, err := d.Entry.Create(r.Context(), in.Start, in.End, in.Category, in.Description)
		if err != nil {
			writeServiceError(w, d.Logger, err)
			return
		}
		d.Logger.Info("entry created",
			logger.String("category", created.Category),
			logger.Time("start", created.Start),
			logger.Time("end", created.End))
		writeJSON(w, http.StatusCreated, created)
	}
}

// DeleteEntry answers DELETE /api/entries/{start}, where start is the
// entry's start instant in RFC 3339.
func DeleteEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := url.PathUnescape(chi.URLParam(r, "start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start")
			return
		}
		start, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid start %q: use RFC 3339", raw))
			return
		}

		e, err := d.Entry.FindAt(r.Context(), start.UTC())
		if errors.Is(err, service.ErrNoEntryAt) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeServiceError(w, d.Logger, err)
			return
		}
		if err := d.Entry.Delete(r.Context(), *e); err != nil {
			writeServiceError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// History answers GET /api/history with the mutation log.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := d.Entry.History(r.Context())
		if err != nil {
			writeServiceError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}
