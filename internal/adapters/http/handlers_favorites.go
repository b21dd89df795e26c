package web

import (
	"errors"
	"net/http"

	"eventra/internal/adapters/http/middleware"
	"eventra/internal/application/orchestrators"
	"eventra/internal/application/projections"
)

// favoritesPage is the data for favorites.html.
type favoritesPage struct {
	Result projections.GetFavoritesResult
}

// handleToggleFavorite serves POST /events/{id}/favorite and redirects back.
func handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	_, err := orchestrators.ExecuteToggleFavorite(r.Context(), orchestrators.ToggleFavoriteInput{
		VisitorKey: middleware.VisitorKeyFromContext(r.Context()),
		EventID:    eventID,
	}, orchestrators.ToggleFavoriteDeps{Store: app.Favorites})
	if errors.Is(err, orchestrators.ErrNoVisitor) {
		http.Error(w, "visitor cookie required", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	http.Redirect(w, r, safeReturn(r.PostFormValue("return"), "/events/"+eventID), http.StatusSeeOther)
}

// handleFavorites serves GET /favorites.
func handleFavorites(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetFavorites(r.Context(), projections.GetFavoritesQuery{
		VisitorKey: middleware.VisitorKeyFromContext(r.Context()),
	}, projections.GetFavoritesDeps{
		Events:    app.Gateway,
		Favorites: app.Favorites,
		Now:       timeNow,
	})
	if err != nil {
		renderFetchError(w, r, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "favorites.html", favoritesPage{Result: result})
}

// safeReturn accepts only same-site absolute paths.
func safeReturn(target, fallback string) string {
	if len(target) == 0 || target[0] != '/' || (len(target) > 1 && (target[1] == '/' || target[1] == '\\')) {
		return fallback
	}
	return target
}
