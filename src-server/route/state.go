package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventbr/src-server/model"
	"eventbr/src-server/utils"
)

// State exposes where the session currently sits in the
// listing/editing flow so the client can render the right view after a
// reload.
func State(muxer *http.ServeMux, as *utils.AppState) {
	type StateRespBody struct {
		Username     string         `json:"username"`
		State        string         `json:"state"`
		EditingEvent *EventRespBody `json:"editingEvent,omitempty"`
	}

	muxer.HandleFunc("GET /state", AuthMiddleware(as, func(w http.ResponseWriter, r *http.Request) {
		sessionModel, ok := r.Context().Value(SessionCtxKey).(*model.Session)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get session from middleware"))
			return
		}

		resp := StateRespBody{
			Username: sessionModel.Username,
			State:    string(sessionModel.State()),
		}
		if sessionModel.State() == model.SESSION_STATE_EDITING {
			eventModel, err := model.FindEventByID(r.Context(), as.BunDB, sessionModel.EditingEventID.Int64)
			switch {
			case errors.Is(err, model.ErrEventNotFound):
				// the edited event is gone, fall back to listing
				if err := sessionModel.ClearEditing(r.Context(), as.BunDB); err != nil {
					slog.Warn("can't clear editing state", "error", err)
				}
				resp.State = string(model.SESSION_STATE_LISTING)
			case err != nil:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't find editing event"))
				slog.Error("can't find editing event", "error", err)
				return
			default:
				eventResp := eventToResp(eventModel)
				resp.EditingEvent = &eventResp
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't encode state response"))
			return
		}
	}))
}
