package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"eventbr/src-server/city"
	"eventbr/src-server/model"
	"eventbr/src-server/utils"
)

type EventReqBody struct {
	Name  string `json:"name"`
	Venue string `json:"venue"`
	// combined "Name (UF)" display string from the dropdown
	City        string `json:"city"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Attendance  int    `json:"attendance"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Segment     string `json:"segment"`
}

type EventRespBody struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Venue       string `json:"venue"`
	City        string `json:"city"`
	State       string `json:"state"`
	CityDisplay string `json:"cityDisplay"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Attendance  int    `json:"attendance"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Segment     string `json:"segment"`
}

func eventToResp(eventModel *model.Event) EventRespBody {
	return EventRespBody{
		ID:    eventModel.ID,
		Name:  eventModel.Name,
		Venue: eventModel.Venue,
		City:  eventModel.City,
		State: eventModel.State,
		CityDisplay: city.Entry{
			Name: eventModel.City,
			UF:   eventModel.State,
		}.Display(),
		StartDate:   eventModel.StartDate,
		EndDate:     eventModel.EndDate,
		Attendance:  eventModel.Attendance,
		Description: eventModel.Description,
		Category:    eventModel.Category,
		Segment:     eventModel.Segment,
	}
}

func eventFromReq(reqBody *EventReqBody) model.Event {
	cityEntry := city.Split(reqBody.City)
	return model.Event{
		Name:        reqBody.Name,
		Venue:       reqBody.Venue,
		City:        cityEntry.Name,
		State:       cityEntry.UF,
		StartDate:   reqBody.StartDate,
		EndDate:     reqBody.EndDate,
		Attendance:  reqBody.Attendance,
		Description: reqBody.Description,
		Category:    reqBody.Category,
		Segment:     reqBody.Segment,
	}
}

func writeFieldErrors(w http.ResponseWriter, fieldErrs model.FieldErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := json.NewEncoder(w).Encode(map[string]model.FieldErrors{
		"fieldErrors": fieldErrs,
	}); err != nil {
		slog.Error("can't encode field errors", "error", err)
	}
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// the caller's submissions, insertion order
	muxer.HandleFunc("GET /events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from middleware"))
			return
		}

		startTimer := time.Now()
		eventModels, err := model.ListEventsByOwner(r.Context(), as.BunDB, sessionModel.UserID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf("Can't list events: %s", err.Error())))
			return
		}
		select {
		case as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		resp := make([]EventRespBody, 0, len(eventModels))
		for i := range eventModels {
			resp = append(resp, eventToResp(&eventModels[i]))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string][]EventRespBody{
			"events": resp,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf("Can't encode events response: %s", err.Error())))
			return
		}
	}))

	// create a new event from the form
	muxer.HandleFunc("POST /events", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from middleware"))
			return
		}

		var reqBody EventReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		eventModel := eventFromReq(&reqBody)
		eventModel.UserID = sessionModel.UserID

		startTimer := time.Now()
		if err := eventModel.Insert(r.Context(), as.BunDB); err != nil {
			var fieldErrs model.FieldErrors
			if errors.As(err, &fieldErrs) {
				writeFieldErrors(w, fieldErrs)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't insert event"))
			slog.Error("can't insert event", "error", err)
			return
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
		select {
		case as.MetricChans.EventCreated <- struct{}{}:
		default:
		}

		slog.Info("event created", "event_id", eventModel.ID, "user_id", sessionModel.UserID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(eventToResp(&eventModel)); err != nil {
			slog.Error("can't encode event response", "error", err)
		}
	}))

	// pick one event to edit
	muxer.HandleFunc("POST /events/{id}/edit", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from middleware"))
			return
		}

		eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event id"))
			return
		}

		eventModel, err := model.FindEventByID(r.Context(), as.BunDB, eventID)
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			// stale edit link; also drop any editing state left behind
			if err := sessionModel.ClearEditing(r.Context(), as.BunDB); err != nil {
				slog.Warn("can't clear editing state", "error", err)
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Evento não encontrado."))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't find event"))
			slog.Error("can't find event", "error", err)
			return
		case eventModel.UserID != sessionModel.UserID:
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Evento pertence a outra conta."))
			return
		}

		if err := sessionModel.SetEditing(r.Context(), as.BunDB, eventID); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't set editing state"))
			slog.Error("can't set editing state", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(eventToResp(eventModel)); err != nil {
			slog.Error("can't encode event response", "error", err)
		}
	}))

	// save an edit: full overwrite of every field, then back to listing
	muxer.HandleFunc("PUT /events/{id}", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from middleware"))
			return
		}

		eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event id"))
			return
		}

		var reqBody EventReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		eventModel := eventFromReq(&reqBody)
		eventModel.ID = eventID
		eventModel.UserID = sessionModel.UserID

		startTimer := time.Now()
		if err := eventModel.Update(r.Context(), as.BunDB); err != nil {
			var fieldErrs model.FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				writeFieldErrors(w, fieldErrs)
				return
			case errors.Is(err, model.ErrEventNotFound):
				if err := sessionModel.ClearEditing(r.Context(), as.BunDB); err != nil {
					slog.Warn("can't clear editing state", "error", err)
				}
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Evento não encontrado."))
				return
			case errors.Is(err, model.ErrEventNotOwned):
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte("Evento pertence a outra conta."))
				return
			default:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't update event"))
				slog.Error("can't update event", "error", err)
				return
			}
		}
		select {
		case as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds()):
		default:
		}
		select {
		case as.MetricChans.EventUpdated <- struct{}{}:
		default:
		}

		if err := sessionModel.ClearEditing(r.Context(), as.BunDB); err != nil {
			slog.Warn("can't clear editing state", "error", err)
		}

		slog.Info("event updated", "event_id", eventID, "user_id", sessionModel.UserID)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(eventToResp(&eventModel)); err != nil {
			slog.Error("can't encode event response", "error", err)
		}
	}))

	// leave editing without touching the store
	muxer.HandleFunc("POST /events/cancel", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from middleware"))
			return
		}

		if err := sessionModel.ClearEditing(r.Context(), as.BunDB); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't clear editing state"))
			slog.Error("can't clear editing state", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}
