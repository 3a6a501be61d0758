package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/cvparse"
	"github.com/skillsys/hrassist/pkg/hr"
)

// handleListEmployeeSkills handles GET /api/hr/skills
func (s *Server) handleListEmployeeSkills(w http.ResponseWriter, r *http.Request) {
	if s.services.Directory == nil {
		s.unavailable(w, r, "HR directory")
		return
	}

	names, err := s.services.Directory.ListSkillNames(r.Context())
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "Failed to list skills", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSONResponse(w, http.StatusOK, map[string][]string{"skills": names})
}

// parseCandidateQuery reads ?skill= (repeatable or comma separated),
// ?minExp=, ?position=, ?department= and ?limit=
func parseCandidateQuery(r *http.Request) (hr.CandidateQuery, error) {
	values := r.URL.Query()
	q := hr.CandidateQuery{
		Position:   strings.TrimSpace(values.Get("position")),
		Department: strings.TrimSpace(values.Get("department")),
	}

	for _, v := range values["skill"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				q.Skills = append(q.Skills, name)
			}
		}
	}

	if raw := values.Get("minExp"); raw != "" {
		minExp, err := strconv.ParseFloat(raw, 64)
		if err != nil || minExp < 0 {
			return q, errors.Errorf("invalid minExp %q", raw)
		}
		q.MinExperience = &minExp
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return q, errors.Errorf("invalid limit %q", raw)
		}
		q.Limit = limit
	}

	return q, nil
}

// handleFindCandidates handles GET /api/hr/candidates
func (s *Server) handleFindCandidates(w http.ResponseWriter, r *http.Request) {
	if s.services.Directory == nil {
		s.unavailable(w, r, "HR directory")
		return
	}

	q, err := parseCandidateQuery(r)
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := s.services.Directory.FindCandidates(r.Context(), q)
	switch {
	case errors.Is(err, hr.ErrInvalidQuery):
		s.writeErrorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		s.writeErrorResponse(w, r, http.StatusInternalServerError, "Failed to search candidates", err)
		return
	}
	if result.Candidates == nil {
		result.Candidates = []hr.Candidate{}
	}
	s.writeJSONResponse(w, http.StatusOK, result)
}

// handleParseCV handles POST /api/cv/parse
func (s *Server) handleParseCV(w http.ResponseWriter, r *http.Request) {
	if s.services.CV == nil {
		s.unavailable(w, r, "CV parsing")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := s.decodeJSON(w, r, &body); err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, "text (string) is required in body", err)
		return
	}

	result, err := s.services.CV.Parse(r.Context(), body.Text)
	switch {
	case errors.Is(err, cvparse.ErrEmptyInput):
		s.writeErrorResponse(w, r, http.StatusBadRequest, "text (string) is required in body", nil)
		return
	case err != nil:
		s.writeErrorResponse(w, r, http.StatusBadGateway, err.Error(), err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, result)
}
