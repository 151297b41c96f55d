package services

import (
	"fmt"
	"log"

	"journal-review-api/config"
)

// Notifier emails reviewer invitations for new submissions. Dispatch is
// fire-and-forget: a delivery failure is logged and reported as false but
// never reaches the submitting request.
type Notifier struct {
	mailer    *config.Mailer
	tokens    *TokenService
	baseURL   string
	reviewers []string
}

func NewNotifier(mailer *config.Mailer, tokens *TokenService, cfg *config.Config) *Notifier {
	return &Notifier{
		mailer:    mailer,
		tokens:    tokens,
		baseURL:   cfg.BaseURL,
		reviewers: cfg.ReviewerEmails,
	}
}

// NotifyReviewers sends the invitation for one submission to every
// configured reviewer address. The embedded capability token grants
// reviewer access to this submission only, for seven days.
func (n *Notifier) NotifyReviewers(journalID uint) bool {
	token, err := n.tokens.IssueCapability(journalID)
	if err != nil {
		log.Printf("Failed to issue review capability for journal %d: %v", journalID, err)
		return false
	}

	reviewLink := fmt.Sprintf("%s/review/%d?token=%s", n.baseURL, journalID, token)
	html := invitationHTML(reviewLink)

	if err := n.mailer.Send(n.reviewers, "New Journal Submission for Review", html); err != nil {
		log.Printf("Failed to send review invitation for journal %d: %v", journalID, err)
		return false
	}
	return true
}

func invitationHTML(reviewLink string) string {
	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #2c3e50;">New Journal Submission for Review</h2>
        <p>A new journal has been submitted and requires your review.</p>
        <p>Please click the link below to review the submission:</p>
        <a href="%s"
           style="display: inline-block; padding: 10px 20px; background-color: #3498db;
                  color: white; text-decoration: none; border-radius: 5px; margin: 15px 0;">
          Review Journal
        </a>
        <p>If you didn't request this, please ignore this email.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="font-size: 12px; color: #777;">
          This link will expire in 7 days. For security reasons, please do not share this link.
        </p>
      </div>
    `, reviewLink)
}
