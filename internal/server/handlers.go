// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/paper-intel/internal/paper"
)

type arxivRequest struct {
	ArxivID string `json:"arxiv_id"`
}

type queryRequest struct {
	ArxivID string `json:"arxiv_id"`
	Query   string `json:"query"`
}

// detail is the error body: {"detail": "<stage>: <message>"}.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

// fail maps a flow error to a status: client faults are 400, everything
// else 500.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	var pe *paper.Error
	if errors.As(err, &pe) && pe.Kind == paper.KindInput {
		status = http.StatusBadRequest
	}
	return detail(c, status, err.Error())
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// bindQuery decodes a {arxiv_id, query} body. A nil result means the
// response has already been written.
func bindQuery(c echo.Context) (*queryRequest, error) {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return nil, detail(c, http.StatusBadRequest, paper.OpInvalidInput+": malformed request body")
	}
	if strings.TrimSpace(req.ArxivID) == "" {
		return nil, detail(c, http.StatusBadRequest, paper.OpInvalidInput+": arxiv_id is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, detail(c, http.StatusBadRequest, "query is required")
	}
	return &req, nil
}

// (POST /paper/from-arxiv)
func (s *Server) extract(c echo.Context) error {
	var req arxivRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, paper.OpInvalidInput+": malformed request body")
	}
	if strings.TrimSpace(req.ArxivID) == "" {
		return detail(c, http.StatusBadRequest, paper.OpInvalidInput+": arxiv_id is required")
	}
	out, err := s.flows.ExtractInfo(c.Request().Context(), req.ArxivID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// (POST /paper/similarity)
func (s *Server) similarity(c echo.Context) error {
	req, err := bindQuery(c)
	if req == nil {
		return err
	}
	out, err := s.flows.ScorePaper(c.Request().Context(), req.ArxivID, req.Query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// (POST /paper/related)
func (s *Server) related(c echo.Context) error {
	req, err := bindQuery(c)
	if req == nil {
		return err
	}
	out, err := s.flows.FindRelated(c.Request().Context(), req.ArxivID, req.Query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// (POST /paper/chat)
func (s *Server) chat(c echo.Context) error {
	req, err := bindQuery(c)
	if req == nil {
		return err
	}
	out, err := s.flows.Chat(c.Request().Context(), req.ArxivID, req.Query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
