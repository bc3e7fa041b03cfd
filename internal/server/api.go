package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/factwatch/internal/upstream"
)

const jsonContentType = "application/json; charset=utf-8"

// FactCheck relays GET /api/factcheck to the claim-search API.
func (s *Server) FactCheck(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}
	lang := c.Query("lang")
	if lang == "" {
		lang = s.Config.FactCheck.DefaultLang
	}
	pageSize := c.Query("pageSize")
	if pageSize == "" {
		pageSize = strconv.Itoa(s.Config.FactCheck.PageSize)
	}

	resp, err := s.Claims.Search(c.Request.Context(), upstream.ClaimSearchParams{
		Query:     query,
		Lang:      lang,
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
	})
	if err != nil {
		s.relayError(c, err)
		return
	}
	relay(c, resp)
}

// HTTPCheck relays GET /api/httpcheck to the threat-lookup API.
func (s *Server) HTTPCheck(c *gin.Context) {
	resp, err := s.Threats.Find(c.Request.Context(), c.Query("url"))
	if err != nil {
		s.relayError(c, err)
		return
	}
	relay(c, resp)
}

func relay(c *gin.Context, resp *upstream.Response) {
	c.Header("Cache-Control", "no-store")
	c.Data(resp.Status, jsonContentType, resp.Body)
}

// relayError maps relay failures onto status codes.
func (s *Server) relayError(c *gin.Context, err error) {
	var missing *upstream.MissingCredentialError

	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, upstream.ErrMissingQuery):
		status, msg = http.StatusBadRequest, "Missing query"
	case errors.Is(err, upstream.ErrMissingURL):
		status, msg = http.StatusBadRequest, "Missing url"
	case errors.As(err, &missing):
		s.Logger.Error("relay credential not configured", "env", missing.Env)
	case errors.Is(err, upstream.ErrUnavailable):
		status = http.StatusBadGateway
	default:
		s.Logger.Error("relay failed", "path", c.FullPath(), "error", err)
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(status, gin.H{"error": msg})
}
