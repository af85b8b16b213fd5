// admin.go - privacy-conscious visitor tracking and the admin dashboard
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const sqliteTime = "2006-01-02 15:04:05"

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type SubscriptionMetric struct {
	ID          int       `json:"id"`
	HashedEmail string    `json:"hashed_email"`
	Outcome     string    `json:"outcome"`
	Timestamp   time.Time `json:"timestamp"`
}

type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

type AdminStats struct {
	TotalVisitors       int64                `json:"total_visitors"`
	UniqueVisitors      int64                `json:"unique_visitors"`
	VisitorsToday       int64                `json:"visitors_today"`
	VisitorsThisWeek    int64                `json:"visitors_this_week"`
	Subscribers         int64                `json:"subscribers"`
	DuplicateSignups    int64                `json:"duplicate_signups"`
	FailedSignups       int64                `json:"failed_signups"`
	TopPages            []PageStat           `json:"top_pages"`
	RecentVisitors      []VisitorMetric      `json:"recent_visitors"`
	RecentSubscriptions []SubscriptionMetric `json:"recent_subscriptions"`
}

// Initialize admin system with privacy considerations
func (s *server) initAdminToken() {
	s.adminToken = generateAdminToken()
	s.hashSalt = s.cfg.HashSalt
	if s.hashSalt == "" {
		s.hashSalt = generateAdminToken() // Use for IP and email hashing
	}

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", s.adminToken)
	}
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IPs and emails for privacy compliance (consistent per value and salt)
func (s *server) hashValue(v string) string {
	hash := sha256.New()
	hash.Write([]byte(strings.ToLower(v) + s.hashSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for assets, APIs and admin pages
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/img/") ||
			strings.HasPrefix(path, "/admin") ||
			strings.HasPrefix(path, "/dotgrid/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		go s.trackVisitor(c.ClientIP(), c.GetHeader("User-Agent"), path)
	}
}

func (s *server) trackVisitor(ip, userAgent, path string) {
	_, err := s.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, s.hashValue(ip), userAgent, path, time.Now().UTC().Format(sqliteTime))
	if err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

func (s *server) recordSubscription(email, outcome string) {
	if s.db == nil {
		return
	}
	_, err := s.db.Exec(`
		INSERT INTO subscriptions (hashed_email, outcome, timestamp)
		VALUES (?, ?, ?)
	`, s.hashValue(email), outcome, time.Now().UTC().Format(sqliteTime))
	if err != nil {
		log.Printf("Error recording subscription: %v", err)
	}
}

// Initialize privacy-conscious visitor tracking
func (s *server) initVisitorTracking() {
	// Clean up old visitor data for privacy compliance (run in background)
	go s.cleanupOldVisitorData()
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
}

// Cleanup old visitor data for privacy compliance
func (s *server) cleanupOldVisitorData() {
	result, err := s.db.Exec(`
		DELETE FROM visitors
		WHERE timestamp < datetime('now', '-12 months')
	`)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}

	rowsDeleted, _ := result.RowsAffected()
	if rowsDeleted > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", rowsDeleted)
	}
}

// Get comprehensive admin statistics
func (s *server) getAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM visitors", &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')", &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')", &stats.VisitorsThisWeek},
		{"SELECT COUNT(DISTINCT hashed_email) FROM subscriptions WHERE outcome = 'subscribed'", &stats.Subscribers},
		{"SELECT COUNT(*) FROM subscriptions WHERE outcome = 'exists'", &stats.DuplicateSignups},
		{"SELECT COUNT(*) FROM subscriptions WHERE outcome = 'failed'", &stats.FailedSignups},
	}
	for _, q := range counts {
		if err := s.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	var err error
	stats.TopPages, err = s.topPages(10)
	if err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = s.recentVisitors(50)
	if err != nil {
		return nil, err
	}
	stats.RecentSubscriptions, err = s.recentSubscriptions(50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Most viewed paths
func (s *server) topPages(limit int) ([]PageStat, error) {
	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []PageStat
	for rows.Next() {
		var page PageStat
		if err := rows.Scan(&page.Path, &page.Views); err != nil {
			continue
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Recent visitors (with hashed IPs for privacy)
func (s *server) recentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			continue
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

func (s *server) recentSubscriptions(limit int) ([]SubscriptionMetric, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_email, outcome, timestamp
		FROM subscriptions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []SubscriptionMetric
	for rows.Next() {
		var sub SubscriptionMetric
		if err := rows.Scan(&sub.ID, &sub.HashedEmail, &sub.Outcome, &sub.Timestamp); err != nil {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *server) adminCredentials() (string, string) {
	username, password := s.cfg.AdminUsername, s.cfg.AdminPassword

	// Default credentials for development only
	if username == "" {
		username = "admin"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
	}
	if password == "" {
		password = "admin123"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return username, password
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"meta": pageMeta("Privacy Policy", ""),
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		wantUser, wantPass := s.adminCredentials()

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", s.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.hashValue(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Printf("Failed admin login attempt from %s", s.hashValue(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.hashValue(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.recentVisitors(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.GET("/subscribers", func(c *gin.Context) {
		subs, err := s.recentSubscriptions(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load subscriptions",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-subscribers.html", gin.H{
			"subscriptions": subs,
		})
	})

	// Privacy compliance endpoint - purge visitor data past retention
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		go s.cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Set headers for file download
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")

		log.Printf("Admin stats exported by %s", s.hashValue(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
