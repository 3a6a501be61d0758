package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/skills"
)

const (
	msgInvalidName       = "Invalid skill name"
	msgInvalidTarget     = "Invalid skill name or missing path"
	msgInvalidPath       = "Invalid path"
	msgInvalidCreateName = "Invalid skill name. Use lowercase letters, numbers, and hyphens only."
	msgSkillNotFound     = "Skill not found"
	msgFileNotFound      = "File not found"
	msgSkillExists       = "Skill already exists"
	msgContentRequired   = "content (string) is required in body"
)

// fileTarget reads the skill name and ?path= of a file route. It writes the
// 400 response itself when either is unusable.
func (s *Server) fileTarget(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	name := mux.Vars(r)["name"]
	rel := r.URL.Query().Get("path")
	if !skills.ValidName(name) || rel == "" {
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgInvalidTarget, nil)
		return "", "", false
	}
	return name, rel, true
}

// skillName reads the skill name of a skill route, writing the 400 itself
func (s *Server) skillName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := mux.Vars(r)["name"]
	if !skills.ValidName(name) {
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgInvalidName, nil)
		return "", false
	}
	return name, true
}

// writeSkillError maps a service error to a response. Anything not
// recognised is a 500 carrying the error text, which for mirror failures
// includes the remote status and body.
func (s *Server) writeSkillError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, skills.ErrInvalidName):
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgInvalidName, err)
	case errors.Is(err, skills.ErrMissingPath):
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgInvalidTarget, err)
	case errors.Is(err, skills.ErrInvalidPath):
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgInvalidPath, err)
	case errors.Is(err, skills.ErrSkillExists):
		s.writeErrorResponse(w, r, http.StatusConflict, msgSkillExists, err)
	case errors.Is(err, skills.ErrFileMissing):
		s.writeErrorResponse(w, r, http.StatusNotFound, msgFileNotFound, err)
	case errors.Is(err, skills.ErrSkillMissing):
		s.writeErrorResponse(w, r, http.StatusNotFound, msgSkillNotFound, err)
	default:
		s.writeErrorResponse(w, r, http.StatusInternalServerError, err.Error(), err)
	}
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Skills.List(r.Context())
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "Failed to list skills", err)
		return
	}
	if list == nil {
		list = []skills.Metadata{}
	}
	s.writeJSONResponse(w, http.StatusOK, list)
}

type treeResponse struct {
	Name  string             `json:"name"`
	Files []skills.TreeEntry `json:"files"`
}

// handleSkillTree handles GET /api/skills/{name}/tree
func (s *Server) handleSkillTree(w http.ResponseWriter, r *http.Request) {
	name, ok := s.skillName(w, r)
	if !ok {
		return
	}

	files, err := s.services.Skills.Tree(r.Context(), name)
	if err != nil {
		s.writeSkillError(w, r, err)
		return
	}
	if files == nil {
		files = []skills.TreeEntry{}
	}
	s.writeJSONResponse(w, http.StatusOK, treeResponse{Name: name, Files: files})
}

// handleReadFile handles GET /api/skills/{name}/file?path=
func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	name, rel, ok := s.fileTarget(w, r)
	if !ok {
		return
	}

	content, err := s.services.Skills.ReadFile(r.Context(), name, rel)
	if err != nil {
		s.writeSkillError(w, r, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]string{"path": rel, "content": content})
}

// handleWriteFile handles PUT /api/skills/{name}/file?path=
func (s *Server) handleWriteFile(w http.ResponseWriter, r *http.Request) {
	name, rel, ok := s.fileTarget(w, r)
	if !ok {
		return
	}

	var body struct {
		Content *string `json:"content"`
	}
	if err := s.decodeJSON(w, r, &body); err != nil || body.Content == nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgContentRequired, err)
		return
	}

	if err := s.services.Skills.WriteFile(r.Context(), name, rel, *body.Content); err != nil {
		s.writeSkillError(w, r, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{"ok": true, "path": rel})
}

// handleDeleteFile handles DELETE /api/skills/{name}/file?path=
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name, rel, ok := s.fileTarget(w, r)
	if !ok {
		return
	}

	if err := s.services.Skills.DeleteFile(r.Context(), name, rel); err != nil {
		s.writeSkillError(w, r, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleCreateSkill handles POST /api/skills
func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description any    `json:"description"`
	}
	if err := s.decodeJSON(w, r, &body); err != nil || !skills.ValidName(body.Name) {
		s.writeErrorResponse(w, r, http.StatusBadRequest, msgInvalidCreateName, err)
		return
	}

	if err := s.services.Skills.Create(r.Context(), body.Name, descriptionText(body.Description)); err != nil {
		s.writeSkillError(w, r, err)
		return
	}
	s.writeJSONResponse(w, http.StatusCreated, map[string]any{"ok": true, "name": body.Name})
}

// descriptionText renders a decoded JSON description. Falsy values (null,
// false, 0 and "") become empty.
func descriptionText(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case bool:
		if d {
			return "true"
		}
		return ""
	case float64:
		if d == 0 {
			return ""
		}
		return strconv.FormatFloat(d, 'f', -1, 64)
	default:
		return fmt.Sprint(d)
	}
}

// handleDeleteSkill handles DELETE /api/skills/{name}. A skill missing
// locally is a 500, not a 404.
func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	name, ok := s.skillName(w, r)
	if !ok {
		return
	}

	err := s.services.Skills.Delete(r.Context(), name)
	switch {
	case err == nil:
		s.writeJSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
	case errors.Is(err, skills.ErrSkillMissing):
		s.writeErrorResponse(w, r, http.StatusInternalServerError, msgSkillNotFound, err)
	default:
		s.writeSkillError(w, r, err)
	}
}

// handleCreateDirectory handles POST /api/skills/{name}/directory?path=
func (s *Server) handleCreateDirectory(w http.ResponseWriter, r *http.Request) {
	name, rel, ok := s.fileTarget(w, r)
	if !ok {
		return
	}

	err := s.services.Skills.CreateDirectory(r.Context(), name, rel)
	switch {
	case err == nil:
		s.writeJSONResponse(w, http.StatusCreated, map[string]any{"ok": true, "path": rel})
	case skills.IsValidation(err):
		s.writeSkillError(w, r, err)
	default:
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "Failed to create directory", err)
	}
}
