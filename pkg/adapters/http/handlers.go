package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/femtree"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/go-chi/chi/v5"
)

// ErrBadRequest marks requests that could not be decoded.
var ErrBadRequest = errors.New("bad request")

// CreateProjectRequest is the body of POST /projects. When Template is set
// the project starts from that template and RootTag is ignored.
type CreateProjectRequest struct {
	Name      string `json:"name"`
	RootTag   string `json:"root_tag,omitempty"`
	Template  string `json:"template,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

// CreateNodeRequest is the body of POST /projects/{project}/nodes/{path}.
// Position inserts instead of appending.
type CreateNodeRequest struct {
	Type     string         `json:"type"`
	Tag      string         `json:"tag"`
	Position *int           `json:"position,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
}

// RenameRequest is the body of POST /projects/{project}/rename/{path}.
type RenameRequest struct {
	Tag string `json:"tag"`
}

// MoveRequest is the body of POST /projects/{project}/move/{path}.
type MoveRequest struct {
	Position int `json:"position"`
}

// ValidateResponse lists the issues of a project.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Issues []femtree.Issue `json:"issues"`
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": "femtree", "version": strings.TrimSpace(femtree.Version)})
}

func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Kinds())
}

func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.Projects(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var (
		view *femtree.NodeView
		err  error
	)
	if req.Template != "" {
		view, err = s.Engine.FromTemplate(r.Context(), req.Name, req.Template, req.Overwrite)
	} else {
		view, err = s.Engine.NewProject(r.Context(), req.Name, req.RootTag)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.DeleteProject(r.Context(), chi.URLParam(r, "project")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDocument serves the document of a project, or of the subtree named by
// the "path" query parameter, in the format named by "format" (JSON by default).
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	format := document.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := document.ParseFormat(v)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: %w", ErrBadRequest, err))
			return
		}
		format = f
	}

	doc, err := s.Engine.Document(r.Context(), chi.URLParam(r, "project"), r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := document.Encode(&buf, doc, format); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// PutDocument imports a document as the project. The format comes from the
// "format" query parameter or the Content-Type header; "overwrite=true"
// replaces an existing project.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	overwrite, _ := strconv.ParseBool(r.URL.Query().Get("overwrite"))

	doc, err := document.Decode(r.Body, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	project := chi.URLParam(r, "project")
	if err := s.Engine.ImportDocument(r.Context(), project, doc, overwrite); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.Engine.Snapshot(r.Context(), project, "")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	view, err := s.Engine.Snapshot(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "*"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateNode adds a child under the node named by the URL path.
func (s *Server) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	project, parent := chi.URLParam(r, "project"), chi.URLParam(r, "*")
	var (
		view *femtree.NodeView
		err  error
	)
	if req.Position != nil {
		view, err = s.Engine.Insert(r.Context(), project, parent, *req.Position, req.Type, req.Tag, req.Args)
	} else {
		view, err = s.Engine.Create(r.Context(), project, parent, req.Type, req.Tag, req.Args)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// ApplyNode writes the attribute values of the body to the node.
func (s *Server) ApplyNode(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if err := decodeBody(r, &values); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.Engine.Apply(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "*"), values)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveNode deletes the node and answers with its former parent.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	view, err := s.Engine.Remove(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "*"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) RenameNode(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.Engine.Rename(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "*"), req.Tag)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.Engine.Move(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "*"), req.Position)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) ValidateProject(w http.ResponseWriter, r *http.Request) {
	issues, err := s.Engine.Validate(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if issues == nil {
		issues = []femtree.Issue{}
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: len(issues) == 0, Issues: issues})
}

// MeshNode meshes the geometry referenced by the mesh node in the URL path.
func (s *Server) MeshNode(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Engine.Mesh(r.Context(), chi.URLParam(r, "project"), chi.URLParam(r, "*"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func requestFormat(r *http.Request) (document.Format, error) {
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := document.ParseFormat(v)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return f, nil
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return document.FormatYAML, nil
	case "application/zip", "application/octet-stream":
		return document.FormatArchive, nil
	default:
		return document.FormatJSON, nil
	}
}

func contentType(f document.Format) string {
	switch f {
	case document.FormatYAML:
		return "application/yaml"
	case document.FormatArchive:
		return "application/zip"
	default:
		return "application/json"
	}
}
