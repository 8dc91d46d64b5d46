package server

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"

	"github.com/aretw0/folio/pkg/auth"
	"github.com/aretw0/folio/pkg/contact"
	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/typed"
	"github.com/aretw0/folio/pkg/upload"
)

type projectView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
	Github      string   `json:"github,omitempty"`
	Demo        string   `json:"demo,omitempty"`
}

type homeView struct {
	Hero      typed.Hero    `json:"hero"`
	About     typed.About   `json:"about"`
	Projects  []projectView `json:"projects"`
	PageViews int64         `json:"pageViews"`
}

type impressumView struct {
	PersonalInfo typed.PersonalInfo `json:"personalInfo"`
	Impressum    typed.Impressum    `json:"impressum"`
	Text         string             `json:"text"`
}

type datenschutzView struct {
	PersonalInfo typed.PersonalInfo `json:"personalInfo"`
	Datenschutz  typed.Datenschutz  `json:"datenschutz"`
	Text         string             `json:"text"`
}

// site decodes the session document. Sections that do not fit their type
// read as empty.
func (s *Server) site() typed.Site {
	site, err := typed.LoadSite(s.rt.Service)
	if err != nil {
		s.logger.Warn("content does not match the site layout", "error", err)
	}
	return site
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) home(c *gin.Context) {
	views, err := s.rt.Service.RecordPageView(c.Request.Context(), 1)
	if err != nil {
		s.logger.Warn("failed to record page view", "error", err)
	} else {
		s.metrics.PageViews.Inc()
	}

	site := s.site()
	ids := make([]string, 0, len(site.Projects))
	for id := range site.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	projects := make([]projectView, 0, len(ids))
	for _, id := range ids {
		p := site.Projects[id]
		projects = append(projects, projectView{
			ID:          id,
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			Tags:        p.TagList(),
			Github:      p.Github,
			Demo:        p.Demo,
		})
	}

	c.JSON(http.StatusOK, homeView{
		Hero:      site.Hero,
		About:     site.About,
		Projects:  projects,
		PageViews: views,
	})
}

func (s *Server) impressum(c *gin.Context) {
	site := s.site()
	c.JSON(http.StatusOK, impressumView{
		PersonalInfo: site.PersonalInfo,
		Impressum:    site.Impressum,
		Text:         site.Legal.Impressum,
	})
}

func (s *Server) datenschutz(c *gin.Context) {
	site := s.site()
	c.JSON(http.StatusOK, datenschutzView{
		PersonalInfo: site.PersonalInfo,
		Datenschutz:  site.Datenschutz,
		Text:         site.Legal.Datenschutz,
	})
}

func (s *Server) admin(c *gin.Context) {
	ctx := c.Request.Context()
	persisted, err := s.rt.Service.Persisted(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	views, err := s.rt.Service.PageViews(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"session":   content.ToAny(s.rt.Service.Document()),
		"persisted": content.ToAny(persisted),
		"dirty":     s.rt.Service.Dirty(),
		"pageViews": views,
	}
	if claims, ok := c.Get(claimsKey); ok {
		if cl, ok := claims.(*auth.Claims); ok && cl.ExpiresAt != nil {
			resp["expiresAt"] = cl.ExpiresAt.Time
		}
	}
	c.JSON(http.StatusOK, resp)
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	if s.rt.Auth == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin login is disabled"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.rt.Auth.Login(c.Request.Context(), req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) logout(c *gin.Context) {
	if err := s.rt.Auth.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type updateRequest struct {
	Path  string `json:"path" binding:"required"`
	Value string `json:"value"`
}

func (s *Server) updateContent(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.rt.Service.Update(c.Request.Context(), req.Path, req.Value)
	switch {
	case errors.Is(err, content.ErrInvalidPath):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, content.ErrNotMapping):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":  req.Path,
		"value": s.rt.Service.Get(req.Path),
		"dirty": s.rt.Service.Dirty(),
	})
}

type saveRequest struct {
	Sections []string `json:"sections"`
}

func (s *Server) saveContent(c *gin.Context) {
	var req saveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	_, res, err := s.rt.Service.Save(c.Request.Context(), req.Sections...)
	s.metrics.Saves.WithLabelValues(result(err)).Inc()
	switch {
	case errors.Is(err, core.ErrUnknownSection), errors.Is(err, core.ErrNothingToSave):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, core.ErrReadOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, core.ErrExportFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "sections": res.Sections})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) exportContent(c *gin.Context) {
	doc, err := s.rt.Service.Persisted(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	data, err := content.Encode(doc, content.FormatJSON)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+downloadName(s.rt.Service.ExportName())+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// downloadName is the artifact name with a .json extension, since the
// download is always JSON.
func downloadName(name string) string {
	name = path.Base(name)
	return strings.TrimSuffix(name, path.Ext(name)) + content.FormatJSON.Ext()
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Consent bool   `json:"consent"`
}

func (s *Server) contact(c *gin.Context) {
	if s.rt.Contact == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "contact form is not configured"})
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := contact.NewForm(s.rt.Contact, contact.WithFormLogger(s.logger))
	defer form.Close()
	form.Fill(contact.Message{Name: req.Name, Email: req.Email, Message: req.Message}, req.Consent)

	err := form.Submit(c.Request.Context())
	switch {
	case errors.Is(err, contact.ErrNoConsent),
		errors.Is(err, contact.ErrMissingField),
		errors.Is(err, contact.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.metrics.ContactMessages.WithLabelValues(result(err)).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"status": form.Status(), "error": form.StatusText()})
		return
	}
	s.metrics.ContactMessages.WithLabelValues(result(nil)).Inc()
	c.JSON(http.StatusOK, gin.H{"status": form.Status(), "message": form.StatusText()})
}

func (s *Server) uploadImage(c *gin.Context) {
	s.handleUpload(c, core.KindImage, "image", func(req upload.Request) (upload.Status, error) {
		req.Folder = c.PostForm("folder")
		return s.rt.Uploads.Image(c.Request.Context(), req)
	})
}

func (s *Server) uploadSchedule(c *gin.Context) {
	s.handleUpload(c, core.KindSchedule, "schedule", func(req upload.Request) (upload.Status, error) {
		req.Week = c.PostForm("week")
		return s.rt.Uploads.Schedule(c.Request.Context(), req)
	})
}

func (s *Server) handleUpload(c *gin.Context, kind, field string, store func(upload.Request) (upload.Status, error)) {
	var req upload.Request
	if fh, err := c.FormFile(field); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		req.Filename = fh.Filename
		req.Body = f
	}

	status, err := store(req)
	s.metrics.Uploads.WithLabelValues(kind, result(err)).Inc()
	if err != nil {
		c.JSON(uploadStatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, status)
}

func uploadStatusCode(err error) int {
	switch {
	case errors.Is(err, upload.ErrNoFile), errors.Is(err, upload.ErrMissingWeek):
		return http.StatusBadRequest
	case errors.Is(err, upload.ErrInvalidType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func (s *Server) listAssets(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "**")
	refs, err := s.rt.Assets.List(c.Request.Context(), pattern)
	if errors.Is(err, doublestar.ErrBadPattern) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if refs == nil {
		refs = []core.AssetRef{}
	}
	c.JSON(http.StatusOK, refs)
}

func (s *Server) state(c *gin.Context) {
	states := make(map[string]any)
	for _, comp := range s.rt.Components() {
		states[comp.ComponentType()] = comp.State()
	}
	c.JSON(http.StatusOK, states)
}
