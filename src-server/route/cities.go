package route

import (
	"encoding/json"
	"net/http"

	"eventbr/src-server/model"
	"eventbr/src-server/utils"
)

// Cities serves the options for the city and category dropdowns. The city
// list comes from the static dataset loaded at startup; an absent dataset
// means an empty list, not an error.
func Cities(muxer *http.ServeMux, as *utils.AppState) {
	type CitiesRespBody struct {
		Cities     []string `json:"cities"`
		Categories []string `json:"categories"`
	}

	muxer.HandleFunc("GET /cities", func(w http.ResponseWriter, r *http.Request) {
		categories := make([]string, 0)
		for _, category := range model.Categories() {
			categories = append(categories, string(category))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CitiesRespBody{
			Cities:     as.Cities.Displays(),
			Categories: categories,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't encode cities response"))
			return
		}
	})
}
