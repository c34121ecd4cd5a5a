package handlers

import (
	"context"
	"log"

	"github.com/AnshRaj112/studio-backend/internal/config"
	"github.com/AnshRaj112/studio-backend/internal/services"
)

// commitSource lists repository commits; *services.GitHubService in production.
type commitSource interface {
	ListCommits(ctx context.Context, owner, repo string, limit int) ([]services.Commit, error)
}

var (
	cloudinaryService services.Uploader
	mailer            services.Mailer = &services.LogMailer{}
	clientTokens      *services.ClientTokenManager
	githubService     commitSource

	// notifyEmail receives new request and contact notifications.
	notifyEmail string
	// secureCookies marks auth cookies Secure (production only).
	secureCookies bool
)

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

// InitMailer uses SendGrid when an API key is configured and logs emails
// otherwise.
func InitMailer(cfg *config.Config) {
	notifyEmail = cfg.AdminNotifyEmail
	if cfg.EmailEnabled() {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFromName, cfg.EmailFrom)
		log.Println("✅ SendGrid email delivery enabled")
		return
	}
	mailer = &services.LogMailer{}
	log.Println("⚠️  SENDGRID_API_KEY not set; emails will be logged instead of sent")
}

// InitAuth prepares client token signing and cookie flags.
func InitAuth(cfg *config.Config) *services.ClientTokenManager {
	clientTokens = services.NewClientTokenManager(cfg.JWTSecret)
	secureCookies = cfg.IsProduction()
	allowedOrigins = cfg.AllowedOrigins
	return clientTokens
}

func InitGitHub(cfg *config.Config) {
	githubService = services.NewGitHubService(cfg.GitHubToken, cfg.GitHubCacheTTL)
	if cfg.GitHubToken == "" {
		log.Println("⚠️  GITHUB_TOKEN not set; using unauthenticated GitHub API")
	}
}
