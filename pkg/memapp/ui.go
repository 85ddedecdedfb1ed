package memapp

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

//go:embed templates
var templatesFS embed.FS

// pages lists the page templates rendered inside templates/layout.html.
var pages = []string{"home", "form", "detail", "notfound"}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"ago": func(t time.Time) string { return humanize.Time(t) },
	}
	res := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		res[name] = tmpl
	}
	return res, nil
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type homeData struct {
	Posts  []Post
	Filter Filter
	Sorts  []sortOption
}

type formValues struct {
	Title   string
	Message string
	Creator string
	Tags    string
}

type formData struct {
	Heading string
	Action  string
	Submit  string
	Values  formValues
	Errors  []string
}

type detailData struct {
	Post Post
}

func (s *Server) uiHome(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	posts, err := s.store.List(r.Context(), f)
	if err != nil {
		log.Printf("[WARN] list posts: %v", err)
		http.Error(w, "unable to load memories", http.StatusInternalServerError)
		return
	}
	sorts := []sortOption{{Value: SortNewest, Label: "Newest"}, {Value: SortOldest, Label: "Oldest"}, {Value: SortLikes, Label: "Most liked"}}
	for i := range sorts {
		sorts[i].Selected = sorts[i].Value == f.Sort || (f.Sort == "" && sorts[i].Value == SortNewest)
	}
	s.render(w, http.StatusOK, "home", homeData{Posts: posts, Filter: f, Sorts: sorts})
}

func (s *Server) uiCreateForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "form", formData{Heading: "Create a Memory", Action: "/create", Submit: "Create"})
}

func (s *Server) uiCreate(w http.ResponseWriter, r *http.Request) {
	vals := readForm(r)
	data := formData{Heading: "Create a Memory", Action: "/create", Submit: "Create", Values: vals}
	if data.Errors = validateForm(vals); len(data.Errors) > 0 {
		s.render(w, http.StatusUnprocessableEntity, "form", data)
		return
	}
	if _, err := s.store.Create(r.Context(), vals.post()); err != nil {
		log.Printf("[WARN] create post: %v", err)
		data.Errors = []string{"Could not save memory"}
		s.render(w, http.StatusConflict, "form", data)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) uiDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "detail", detailData{Post: p})
}

func (s *Server) uiEditForm(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "form", editData(p.ID, valuesOf(p)))
}

func (s *Server) uiEdit(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadPost(w, r)
	if !ok {
		return
	}
	vals := readForm(r)
	data := editData(existing.ID, vals)
	if data.Errors = validateForm(vals); len(data.Errors) > 0 {
		s.render(w, http.StatusUnprocessableEntity, "form", data)
		return
	}
	upd := vals.post()
	upd.SelectedFile = existing.SelectedFile
	if _, err := s.store.Update(r.Context(), existing.ID, upd); err != nil {
		log.Printf("[WARN] update post %s: %v", existing.ID, err)
		data.Errors = []string{"Could not save memory"}
		s.render(w, http.StatusInternalServerError, "form", data)
		return
	}
	http.Redirect(w, r, "/post/"+existing.ID, http.StatusSeeOther)
}

func (s *Server) uiDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.uiNotFound(w, r)
		return
	case err != nil:
		log.Printf("[WARN] delete post %s: %v", id, err)
		http.Error(w, "Server error during delete", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) uiNotFound(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusNotFound, "notfound", nil)
}

// loadPost fetches the post named in the url, rendering the 404 page when it is missing.
func (s *Server) loadPost(w http.ResponseWriter, r *http.Request) (Post, bool) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		s.uiNotFound(w, r)
		return Post{}, false
	}
	if err != nil {
		log.Printf("[WARN] get post: %v", err)
		http.Error(w, "unable to load memory", http.StatusInternalServerError)
		return Post{}, false
	}
	return p, true
}

// render executes a page into a buffer first so template errors never leave a half-written response.
func (s *Server) render(w http.ResponseWriter, code int, page string, data any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[WARN] render %s: %v", page, err)
		http.Error(w, "template execution error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func editData(id string, vals formValues) formData {
	return formData{Heading: "Edit Memory", Action: "/post/" + id + "/edit", Submit: "Save", Values: vals}
}

func readForm(r *http.Request) formValues {
	return formValues{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Message: strings.TrimSpace(r.FormValue("message")),
		Creator: strings.TrimSpace(r.FormValue("creator")),
		Tags:    strings.TrimSpace(r.FormValue("tags")),
	}
}

func validateForm(v formValues) []string {
	var errs []string
	if v.Title == "" {
		errs = append(errs, "Title is required")
	}
	if v.Message == "" {
		errs = append(errs, "Message is required")
	}
	return errs
}

func valuesOf(p Post) formValues {
	return formValues{Title: p.Title, Message: p.Message, Creator: p.Creator, Tags: strings.Join(p.Tags, ", ")}
}

func (v formValues) post() Post {
	return Post{Title: v.Title, Message: v.Message, Creator: v.Creator, Tags: ParseTags(v.Tags)}
}
