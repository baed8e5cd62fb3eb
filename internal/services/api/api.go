// Package api mounts the public HTTP surface
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	perr "fxradar/internal/platform/errors"
	phttp "fxradar/internal/platform/net/http"
	"fxradar/internal/platform/store"
	alerts "fxradar/internal/services/alerts/domain"
	news "fxradar/internal/services/news/domain"
	"fxradar/internal/services/stream"
	sources "fxradar/internal/services/sources/domain"

	"github.com/go-chi/chi/v5"
)

// Deps collects the services the API fronts
type Deps struct {
	News     news.ReaderPort
	Sources  sources.ReaderPort
	SourcesW sources.WriterPort
	Status   sources.StatusPort
	AlertsR  alerts.ReaderPort
	AlertsW  alerts.WriterPort
	Hub      *stream.Hub
	DB       store.Pinger
}

// Mount registers every route on the mux
func Mount(mux *chi.Mux, d Deps) {
	mux.Route("/api", func(r chi.Router) {
		r.Get("/news", listNews(d.News))
		r.Get("/news/{id}", getNews(d.News))

		r.Get("/sources", listSources(d.Sources))
		r.Post("/sources", upsertSource(d.SourcesW))
		r.Get("/sources/status", sourceStatus(d.Status))

		r.Get("/alerts", listAlertRules(d.AlertsR))
		r.Post("/alerts", createAlertRule(d.AlertsW))
		r.Get("/alerts/history", listAlertEvents(d.AlertsR))

		r.Get("/stream", d.Hub.SSEHandler())
	})
	mux.Get("/healthz", healthz(d.DB))
}

func listNews(svc news.ReaderPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := news.Filter{
			Symbol: q.Get("symbol"),
			Source: q.Get("source"),
		}
		var err error
		if f.MinConfidence, err = intParam(q.Get("min_confidence")); err != nil {
			phttp.RespondError(w, r, perr.WithField(err, "min_confidence"))
			return
		}
		if f.Limit, err = intParam(q.Get("limit")); err != nil {
			phttp.RespondError(w, r, perr.WithField(err, "limit"))
			return
		}
		out, err := svc.List(r.Context(), f)
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		if out == nil {
			out = []news.Record{}
		}
		phttp.RespondOK(w, r, out)
	}
}

func getNews(svc news.ReaderPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		phttp.RespondOK(w, r, rec)
	}
}

func listSources(svc sources.ReaderPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.List(r.Context())
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		if out == nil {
			out = []sources.Source{}
		}
		phttp.RespondOK(w, r, out)
	}
}

func upsertSource(svc sources.WriterPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in sources.UpsertInput
		if err := decode(r, &in); err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		src, err := svc.Upsert(r.Context(), in)
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		phttp.RespondCreated(w, r, src)
	}
}

func sourceStatus(svc sources.StatusPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phttp.RespondOK(w, r, svc.Snapshot(r.Context()))
	}
}

func listAlertRules(svc alerts.ReaderPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.ListRules(r.Context())
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		if out == nil {
			out = []alerts.Rule{}
		}
		phttp.RespondOK(w, r, out)
	}
}

func createAlertRule(svc alerts.WriterPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in alerts.CreateInput
		if err := decode(r, &in); err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		rule, err := svc.CreateRule(r.Context(), in)
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		phttp.RespondCreated(w, r, rule)
	}
}

func listAlertEvents(svc alerts.ReaderPort) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intParam(r.URL.Query().Get("limit"))
		if err != nil {
			phttp.RespondError(w, r, perr.WithField(err, "limit"))
			return
		}
		out, err := svc.ListEvents(r.Context(), limit)
		if err != nil {
			phttp.RespondError(w, r, err)
			return
		}
		if out == nil {
			out = []alerts.Event{}
		}
		phttp.RespondOK(w, r, out)
	}
}

func healthz(db store.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				phttp.RespondError(w, r, perr.Wrap(err, perr.ErrorCodeUnavailable, "database unreachable"))
				return
			}
		}
		phttp.RespondOK(w, r, map[string]string{"status": "ok"})
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "decode request body")
	}
	return nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, perr.Validationf("expected a non-negative integer, got %q", raw)
	}
	return n, nil
}
