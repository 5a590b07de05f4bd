package gmail

import (
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// MessageSummary represents a message found by a search, headers only
type MessageSummary struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Date     string
}

// MessageContent represents a full message with its plain-text body
type MessageContent struct {
	ID       string
	ThreadID string
	From     string
	To       string
	Subject  string
	Date     string
	Body     string
}

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// HeaderValue extracts a header value from a Gmail message
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if mph.Name == header {
			return mph.Value
		}
	}
	return ""
}

// SearchMessages searches for messages using Gmail query syntax
// (e.g. "from:alice@example.com", "subject:meeting", "is:unread") and returns
// header summaries for the matches
func (c *Client) SearchMessages(query string, maxResults int64) ([]MessageSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := c.svc.Messages.List("me").Q(query).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	var summaries []MessageSummary
	for _, m := range res.Messages {
		detail, err := c.svc.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}

		summaries = append(summaries, MessageSummary{
			ID:       detail.Id,
			ThreadID: detail.ThreadId,
			From:     HeaderValue(detail, "From"),
			Subject:  HeaderValue(detail, "Subject"),
			Date:     HeaderValue(detail, "Date"),
		})
	}

	return summaries, nil
}

// GetMessageContent retrieves a message with its headers and plain-text body
func (c *Client) GetMessageContent(messageID string) (*MessageContent, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	return &MessageContent{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		From:     HeaderValue(msg, "From"),
		To:       HeaderValue(msg, "To"),
		Subject:  HeaderValue(msg, "Subject"),
		Date:     HeaderValue(msg, "Date"),
		Body:     extractPlainBody(msg.Payload),
	}, nil
}

// extractPlainBody returns the decoded body of a message, preferring the
// top-level payload and falling back to the first text/plain part
func extractPlainBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := decodeBody(payload.Body.Data); err == nil {
			return decoded
		}
	}

	var body string
	walkParts(payload, func(part *gmail.MessagePart) {
		if body == "" && part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBody(part.Body.Data); err == nil {
				body = decoded
			}
		}
	})

	return body
}

// decodeBody decodes base64url-encoded body data (Gmail API uses RFC 4648
// base64url encoding)
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Try with standard base64 if URLEncoding fails
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode message body: %w", err)
		}
	}
	return string(decoded), nil
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
