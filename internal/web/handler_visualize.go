package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/greencart/greencart/internal/imagegen"
)

type visualizeRequest struct {
	RecipeName string `json:"recipe_name"`
}

// handleVisualize generates an illustrative image for one recommendation's
// recipe name.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	var req visualizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.RecipeName) == "" {
		s.writeError(w, http.StatusBadRequest, "missing recipe name")
		return
	}

	url, err := s.session.VisualizeRecipe(r.Context(), req.RecipeName)
	if err != nil {
		s.logger.Error("visualize recipe failed", "recipe", req.RecipeName, "error", err)
		switch {
		case errors.Is(err, imagegen.ErrJobTimedOut):
			s.writeError(w, http.StatusGatewayTimeout, err.Error())
		case errors.Is(err, imagegen.ErrJobFailed), errors.Is(err, imagegen.ErrUnavailable):
			s.writeError(w, http.StatusBadGateway, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, "failed to generate image")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}
