package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// resendAPI is a var so tests can point sends at a local server.
var resendAPI = "https://api.resend.com/emails"

// ResendSendRequest matches the Resend API send email body.
type ResendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender dispatches auction notification emails. All sends are best-effort:
// callers log failures and never surface them to the bidder. Nil = no-op.
type Sender interface {
	SendBidNotification(ctx context.Context, toEmail, carTitle string, amount float64, carID string) error
	SendOutbidNotification(ctx context.Context, toEmail, carTitle string, newAmount float64, carID string) error
	SendAuctionResult(ctx context.Context, toEmail, carTitle, outcome string, finalAmount float64, carID string) error
}

// ResendClient sends emails via the Resend API. Env: RESEND_API_KEY, MAIL_FROM.
type ResendClient struct {
	APIKey     string
	MailFrom   string
	AppBaseURL string
	Client     *http.Client
}

func (c *ResendClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@auction.com"
}

// send sends one email via the Resend API.
func (c *ResendClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := ResendSendRequest{
		From:    c.from(),
		To:      []string{toEmail},
		Subject: subject,
		HTML:    html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	// Sends run on fire-and-forget goroutines, so never write c.Client here.
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend error: status %d body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendBidNotification tells a car owner about a new bid on their listing.
func (c *ResendClient) SendBidNotification(ctx context.Context, toEmail, carTitle string, amount float64, carID string) error {
	subject := fmt.Sprintf("New bid on %s", carTitle)
	html := renderLayout("New Bid Alert",
		fmt.Sprintf("A new bid of $%.2f has been placed on your car: %s", amount, carTitle),
		c.carLink(carID))
	return c.send(ctx, toEmail, subject, html)
}

// SendOutbidNotification tells the previously leading bidder they were outbid.
func (c *ResendClient) SendOutbidNotification(ctx context.Context, toEmail, carTitle string, newAmount float64, carID string) error {
	subject := fmt.Sprintf("You have been outbid on %s", carTitle)
	html := renderLayout("Outbid Notice",
		fmt.Sprintf("Someone placed a higher bid of $%.2f on %s. Place a new bid to stay in the auction.", newAmount, carTitle),
		c.carLink(carID))
	return c.send(ctx, toEmail, subject, html)
}

// SendAuctionResult tells the owner how their auction closed.
func (c *ResendClient) SendAuctionResult(ctx context.Context, toEmail, carTitle, outcome string, finalAmount float64, carID string) error {
	subject := fmt.Sprintf("Auction ended: %s", carTitle)
	var text string
	switch outcome {
	case "completed":
		text = fmt.Sprintf("Your auction for %s closed at $%.2f.", carTitle, finalAmount)
	default:
		text = fmt.Sprintf("Your auction for %s ended without meeting the reserve price.", carTitle)
	}
	html := renderLayout("Auction Ended", text, c.carLink(carID))
	return c.send(ctx, toEmail, subject, html)
}

func (c *ResendClient) carLink(carID string) string {
	base := c.AppBaseURL
	if base == "" {
		base = "http://localhost:3000"
	}
	return base + "/cars/" + carID
}
