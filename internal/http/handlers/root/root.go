// Package root отвечает на корневой запрос API.
package root

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syndicate/internal/http/response"
)

// Banner тело ответа корневого маршрута.
type Banner struct {
	Message string `json:"message"`
}

// Index godoc
// @Summary Приветствие API
// @Tags Meta
// @Produce  json
// @Success 200 {object} response.Response{data=Banner}
// @Router / [get]
func Index(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(Banner{Message: "The 2.5 Syndicate API"}))
}
