package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
	"roadcall/internal/session"
)

// HubController serves the community hub feed and mechanic reports.
type HubController struct {
	Resolver *session.Resolver
	Store    docstore.Store
}

type postInput struct {
	Title     string   `json:"title" binding:"required"`
	Body      string   `json:"body" binding:"required"`
	PhotoURLs []string `json:"photo_urls"`
}

// CreatePost publishes a hub post under the caller's identity.
func (hc *HubController) CreatePost(c *gin.Context) {
	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post input: " + err.Error()})
		return
	}

	id := middleware.AccountID(c)
	role := models.Role(c.GetString("role"))

	var name string
	switch role {
	case models.RoleRider:
		rider, err := hc.Resolver.GetRider(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		name = rider.Name
	case models.RoleMechanic:
		mech, err := hc.Resolver.GetMechanic(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		name = mech.Name
	}

	post := models.Post{
		AuthorID:   id,
		AuthorName: name,
		AuthorRole: role,
		Title:      input.Title,
		Body:       input.Body,
		PhotoURLs:  input.PhotoURLs,
		CreatedAt:  time.Now().UTC(),
	}
	postID, err := hc.Store.Insert(c.Request.Context(), docstore.CollPosts, post)
	if err != nil {
		fail(c, apperr.Storage("post insert", err))
		return
	}
	post.ID = postID
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPosts returns the hub feed, most recent first.
func (hc *HubController) ListPosts(c *gin.Context) {
	docs, err := hc.Store.Find(c.Request.Context(), docstore.CollPosts, docstore.Filter{})
	if err != nil {
		fail(c, apperr.Storage("post list", err))
		return
	}
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		var post models.Post
		if err := doc.Decode(&post); err != nil {
			fail(c, apperr.Storage("post decode", err))
			return
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

type reportInput struct {
	MechanicID string `json:"mechanic_id" binding:"required"`
	RequestID  string `json:"request_id"`
	Reason     string `json:"reason" binding:"required"`
	Details    string `json:"details"`
}

// CreateReport files a rider complaint against a mechanic.
func (hc *HubController) CreateReport(c *gin.Context) {
	var input reportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report input: " + err.Error()})
		return
	}

	// The reported mechanic must exist.
	if _, err := hc.Resolver.GetMechanic(c.Request.Context(), input.MechanicID); err != nil {
		fail(c, err)
		return
	}

	report := models.MechanicReport{
		MechanicID: input.MechanicID,
		ReporterID: middleware.AccountID(c),
		RequestID:  input.RequestID,
		Reason:     input.Reason,
		Details:    input.Details,
		CreatedAt:  time.Now().UTC(),
	}
	id, err := hc.Store.Insert(c.Request.Context(), docstore.CollReports, report)
	if err != nil {
		fail(c, apperr.Storage("report insert", err))
		return
	}
	report.ID = id
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// ListReports returns the reports filed against the calling mechanic.
func (hc *HubController) ListReports(c *gin.Context) {
	docs, err := hc.Store.Find(c.Request.Context(), docstore.CollReports,
		docstore.Filter{"mechanicId": middleware.AccountID(c)})
	if err != nil {
		fail(c, apperr.Storage("report list", err))
		return
	}
	reports := make([]models.MechanicReport, 0, len(docs))
	for _, doc := range docs {
		var report models.MechanicReport
		if err := doc.Decode(&report); err != nil {
			fail(c, apperr.Storage("report decode", err))
			return
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	c.JSON(http.StatusOK, gin.H{"data": reports})
}
