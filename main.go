package main

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/glazeradr/portfolio/internal/content"
	"github.com/glazeradr/portfolio/internal/newsletter"
)

// subscriber is the newsletter provider.
type subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

type server struct {
	cfg     Config
	content *content.Store
	db      *sql.DB
	mailer  subscriber

	adminToken string
	hashSalt   string
	sendMail   func(name, email, message string) error
}

func newServer(cfg Config, store *content.Store, db *sql.DB) *server {
	s := &server{
		cfg:     cfg,
		content: store,
		db:      db,
		mailer:  newsletter.NewClient(cfg.MailchimpAPIKey, cfg.MailchimpListID, cfg.MailchimpDC),
	}
	s.initAdminToken()
	s.sendMail = s.sendContactEmail
	return s
}

func main() {
	cfg := loadConfig()

	store, err := content.NewStore(cfg.ContentDir)
	if err != nil {
		log.Fatal("Failed to load content:", err)
	}
	if cfg.WatchContent {
		if err := store.Watch(context.Background()); err != nil {
			log.Printf("Content hot reload disabled: %v", err)
		} else {
			log.Printf("Watching %s for content changes", cfg.ContentDir)
		}
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	s := newServer(cfg, store, db)
	s.initVisitorTracking()

	r := s.setupRouter()
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": content.RenderMarkdown,
		"hasLink":  content.HasLink,
		"lower":    strings.ToLower,
		"join":     strings.Join,
	}
}

func (s *server) setupRouter() *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob(s.cfg.TemplateGlob)

	r.Static("/img", "./static/img")
	r.Static("/static", "./static")

	r.Use(s.visitorTrackingMiddleware())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		site := s.content.Site()
		latest := site.Posts
		if len(latest) > 3 {
			latest = latest[:3]
		}
		c.HTML(http.StatusOK, "index.html", gin.H{
			"meta":        pageMeta("", site.Profile.Description),
			"profile":     site.Profile,
			"typewriter":  s.typewriterAttrs(),
			"experiences": site.Experiences,
			"projects":    site.Projects,
			"posts":       latest,
			"grids":       s.gridAttrs("hero", "experience", "latest"),
		})
	})

	r.GET("/portfolio", func(c *gin.Context) {
		site := s.content.Site()
		category := c.DefaultQuery("category", "all")
		c.HTML(http.StatusOK, "portfolio.html", gin.H{
			"meta":       pageMeta("Portfolio", "Projects by "+site.Profile.Name),
			"projects":   site.ProjectsByCategory(category),
			"categories": site.Categories(),
			"category":   category,
			"grids":      s.gridAttrs("portfolio"),
		})
	})

	r.GET("/portfolio/:id", func(c *gin.Context) {
		site := s.content.Site()
		project, err := site.Project(c.Param("id"))
		if err != nil {
			s.notFound(c, err)
			return
		}
		c.HTML(http.StatusOK, "project.html", gin.H{
			"meta":    pageMeta(project.Title, project.Description),
			"project": project,
			"grids":   s.gridAttrs("portfolio"),
		})
	})

	r.GET("/blog", func(c *gin.Context) {
		site := s.content.Site()
		var featured, rest []content.Post
		for _, p := range site.Posts {
			if p.Featured && len(featured) == 0 {
				featured = append(featured, p)
				continue
			}
			rest = append(rest, p)
		}
		c.HTML(http.StatusOK, "blog.html", gin.H{
			"meta":     pageMeta("Blog & Insights", "Sharing knowledge and insights about web development, AI, and emerging technologies"),
			"featured": featured,
			"posts":    rest,
			"grids":    s.gridAttrs("blog"),
		})
	})

	r.GET("/blog/:slug", func(c *gin.Context) {
		post, err := s.content.Site().Post(c.Param("slug"))
		if err != nil {
			s.notFound(c, err)
			return
		}
		c.HTML(http.StatusOK, "post.html", gin.H{
			"meta":  pageMeta(post.Title, post.Excerpt),
			"post":  post,
			"grids": s.gridAttrs("post"),
		})
	})

	// Newsletter: JSON API and the HTMX form variant
	r.POST("/api/newsletter", s.handleNewsletterAPI)
	r.POST("/newsletter", s.handleNewsletterForm)

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})
	r.POST("/contact", s.handleContact)

	// Dot-grid backgrounds
	r.GET("/dotgrid/presets", s.handlePresets)
	r.GET("/dotgrid/presets/:name", s.handlePreset)
	r.GET("/dotgrid/preview.png", s.handlePreview)

	s.setupAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		s.notFound(c, errors.New("no route for "+c.Request.URL.Path))
	})
	return r
}

func (s *server) notFound(c *gin.Context, err error) {
	if !errors.Is(err, content.ErrNotFound) {
		log.Printf("Not found: %v", err)
	}
	c.HTML(http.StatusNotFound, "not-found.html", gin.H{
		"meta":  pageMeta("Not Found", ""),
		"grids": s.gridAttrs("post"),
	})
}
