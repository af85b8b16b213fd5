package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/glazeradr/portfolio/internal/newsletter"
)

type newsletterRequest struct {
	Email string `json:"email" form:"email"`
}

type subscribeResult struct {
	status  int
	message string
	failed  bool
}

// subscribe runs one signup and records its outcome. Duplicate addresses are
// reported as success so visitors are never told to retry.
func (s *server) subscribe(ctx context.Context, email string) subscribeResult {
	email = strings.TrimSpace(email)
	if !newsletter.ValidEmail(email) {
		return subscribeResult{http.StatusBadRequest, msgInvalidEmail, true}
	}

	err := s.mailer.Subscribe(ctx, email)
	switch {
	case err == nil:
		s.recordSubscription(email, "subscribed")
		return subscribeResult{http.StatusOK, msgSubscribed, false}
	case errors.Is(err, newsletter.ErrMemberExists):
		s.recordSubscription(email, "exists")
		return subscribeResult{http.StatusOK, msgAlreadySubscribed, false}
	default:
		log.Printf("Newsletter subscription error: %v", err)
		s.recordSubscription(email, "failed")
		return subscribeResult{http.StatusInternalServerError, msgSubscribeFailed, true}
	}
}

func (s *server) handleNewsletterAPI(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidEmail})
		return
	}

	res := s.subscribe(c.Request.Context(), req.Email)
	if res.failed {
		c.JSON(res.status, gin.H{"error": res.message})
		return
	}
	c.JSON(res.status, gin.H{"message": res.message})
}

// handleNewsletterForm serves the HTMX form: always 200 so the fragment swaps in.
func (s *server) handleNewsletterForm(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "newsletter-result.html", gin.H{
			"message": msgInvalidEmail,
			"failed":  true,
		})
		return
	}

	res := s.subscribe(c.Request.Context(), req.Email)
	c.HTML(http.StatusOK, "newsletter-result.html", gin.H{
		"message": res.message,
		"failed":  res.failed,
	})
}
