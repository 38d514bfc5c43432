package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roadcall/internal/apperr"
	"roadcall/internal/docstore"
	"roadcall/internal/geo"
	"roadcall/internal/lifecycle"
	"roadcall/internal/middleware"
	"roadcall/internal/models"
	"roadcall/internal/session"
	"roadcall/internal/storage"
)

// MechanicController covers the mechanic-side profile surface: rating,
// verification documents, notifications, and the rider-facing nearby
// mechanic listing.
type MechanicController struct {
	Resolver *session.Resolver
	Manager  *lifecycle.Manager
	Store    docstore.Store
	Blobs    storage.Store
}

// Rating answers with the mechanic's average rating (0 with no feedback).
func (mc *MechanicController) Rating(c *gin.Context) {
	avg, err := mc.Manager.AverageRating(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average_rating": avg})
}

// UploadVerification accepts a multipart document, stores the blob and
// appends its URL to the mechanic's verification docs.
func (mc *MechanicController) UploadVerification(c *gin.Context) {
	mechID := middleware.AccountID(c)
	mech, err := mc.Resolver.GetMechanic(c.Request.Context(), mechID)
	if err != nil {
		fail(c, err)
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read document"})
		return
	}

	path := "verification/" + mechID + "/" + primitive.NewObjectID().Hex() + filepath.Ext(header.Filename)
	url, err := mc.Blobs.Upload(c.Request.Context(), path, data)
	if err != nil {
		fail(c, apperr.Storage("verification upload", err))
		return
	}

	docs := append(mech.VerificationDocs, url)
	ok, err := mc.Store.Update(c.Request.Context(), docstore.CollMechanics, mechID, docstore.Filter{"verification_docs": docs})
	if err != nil {
		fail(c, apperr.Storage("verification save", err))
		return
	}
	if !ok {
		fail(c, apperr.ErrNotFound)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url, "verification_docs": docs})
}

// Notifications lists the mechanic's system notifications, unread first
// is left to the client; this is the raw list.
func (mc *MechanicController) Notifications(c *gin.Context) {
	docs, err := mc.Store.Find(c.Request.Context(), docstore.CollNotifications,
		docstore.Filter{"mechanicId": middleware.AccountID(c)})
	if err != nil {
		fail(c, apperr.Storage("notification list", err))
		return
	}
	notes := make([]models.SystemNotification, 0, len(docs))
	for _, doc := range docs {
		var note models.SystemNotification
		if err := doc.Decode(&note); err != nil {
			fail(c, apperr.Storage("notification decode", err))
			return
		}
		notes = append(notes, note)
	}
	c.JSON(http.StatusOK, gin.H{"data": notes})
}

// MarkNotificationRead flags a single notification as read.
func (mc *MechanicController) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	// Scope the update to the caller's own notifications.
	ok, err := mc.Store.ConditionalUpdate(c.Request.Context(), docstore.CollNotifications, id,
		docstore.Filter{"mechanicId": middleware.AccountID(c)},
		docstore.Filter{"read": true})
	if err != nil {
		fail(c, apperr.Storage("notification update", err))
		return
	}
	if !ok {
		fail(c, apperr.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

// Nearby lists approved mechanics sorted by distance from the given
// coordinates. Rider-facing.
func (mc *MechanicController) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	mechs, err := mc.Resolver.ApprovedMechanics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": geo.Nearest(models.Location{Latitude: lat, Longitude: lng}, mechs)})
}

// Profile returns the caller's own mechanic profile.
func (mc *MechanicController) Profile(c *gin.Context) {
	mech, err := mc.Resolver.GetMechanic(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mechanic not found"})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mechanic": mech})
}
