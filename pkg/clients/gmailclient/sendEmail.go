package gmailclient

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/gmail/v1"
)

// SendEmail sends an email with the specified subject and body.
// Pacing between sends is the caller's responsibility.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	headers := fmt.Sprintf("To: %s\r\nSubject: %s\r\n", to, subject)
	if c.sender != "" {
		headers = fmt.Sprintf("From: %s\r\n%s", c.sender, headers)
	}
	message := headers + "\r\n" + body

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(message)),
	}

	_, err := c.service.Users.Messages.Send(c.userID, gmailMessage).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
