package memapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// postRequest is the json body accepted by create and update.
type postRequest struct {
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	Creator      string   `json:"creator"`
	Tags         []string `json:"tags"`
	SelectedFile string   `json:"selectedFile"`
}

func (r postRequest) post() Post {
	return Post{Title: r.Title, Message: r.Message, Creator: r.Creator, Tags: r.Tags, SelectedFile: r.SelectedFile}
}

// apiRoutes mounts the json api handlers.
func (s *Server) apiRoutes(r chi.Router) {
	r.Get("/", s.apiList)
	r.Post("/", s.apiCreate)
	r.Get("/{id}", s.apiGet)
	r.Patch("/{id}", s.apiUpdate)
	r.Delete("/{id}", s.apiDelete)
	r.Patch("/{id}/likePost", s.apiLike)
}

func (s *Server) apiList(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.List(r.Context(), filterFromQuery(r))
	if err != nil {
		log.Printf("[WARN] list posts: %v", err)
		writeJSON(w, http.StatusNotFound, message(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) apiGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, message(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) apiCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusConflict, message("decode post: "+err.Error()))
		return
	}
	p, err := s.store.Create(r.Context(), req.post())
	if err != nil {
		writeJSON(w, http.StatusConflict, message(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) apiUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("No post with id: %s", id), http.StatusNotFound)
		return
	}

	// fields absent from the body keep their stored values
	req := postRequest{
		Title: existing.Title, Message: existing.Message, Creator: existing.Creator,
		Tags: existing.Tags, SelectedFile: existing.SelectedFile,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, message("decode post: "+err.Error()))
		return
	}

	p, err := s.store.Update(r.Context(), id, req.post())
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, fmt.Sprintf("No post with id: %s", id), http.StatusNotFound)
	case errors.Is(err, ErrInvalid):
		writeJSON(w, http.StatusBadRequest, message(err.Error()))
	case err != nil:
		log.Printf("[WARN] update post %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, message("Server error during update"))
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validID(id) {
		http.Error(w, fmt.Sprintf("No post with id: %s", id), http.StatusNotFound)
		return
	}
	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, message("Post not found"))
	case err != nil:
		log.Printf("[WARN] delete post %s: %v", id, err)
		http.Error(w, "Server error during delete", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, message("Post deleted successfully"))
	}
}

func (s *Server) apiLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.store.Like(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, fmt.Sprintf("No post with id: %s", id), http.StatusNotFound)
	case err != nil:
		log.Printf("[WARN] like post %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, message("Server error during like"))
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{Query: q.Get("q"), Tag: q.Get("tag"), Sort: q.Get("sort")}
}

type messageResponse struct {
	Message string `json:"message"`
}

func message(s string) messageResponse { return messageResponse{Message: s} }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
