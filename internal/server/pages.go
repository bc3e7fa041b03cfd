package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/factwatch/internal/view"
)

type searchPage struct {
	View    view.SearchSnapshot
	Presets []string
	Langs   []string
}

type checkPage struct {
	View     view.CheckSnapshot
	Examples []view.ExampleURL
}

var pageLangs = []string{"th", "en"}

// SearchPage renders the search view. ?rating= only changes the filter.
func (s *Server) SearchPage(c *gin.Context) {
	sess := currentSession(c)
	if rating, ok := c.GetQuery("rating"); ok {
		sess.Search.SetFilter(rating)
	}
	c.HTML(http.StatusOK, "search.tmpl", searchPage{
		View:    sess.Search.Snapshot(),
		Presets: view.RatingPresets,
		Langs:   pageLangs,
	})
}

func (s *Server) SubmitSearch(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Search.Search(c.Request.Context(), s.Relay, c.PostForm("q"), c.PostForm("lang")); err != nil {
		s.Logger.Info("search failed", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) LoadMore(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Search.LoadMore(c.Request.Context(), s.Relay); err != nil {
		s.Logger.Info("load more failed", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) CheckPage(c *gin.Context) {
	sess := currentSession(c)
	c.HTML(http.StatusOK, "httpcheck.tmpl", checkPage{
		View:     sess.Check.Snapshot(),
		Examples: view.ExampleURLs,
	})
}

func (s *Server) SubmitCheck(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Check.Check(c.Request.Context(), s.Relay, c.PostForm("url")); err != nil {
		s.Logger.Info("url check failed", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/httpcheck")
}
