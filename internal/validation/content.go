// Package validation holds the content rules shared by the service layer.
package validation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Length caps for user-authored text, counted in runes.
const (
	MaxPostDescription = 4000
	MaxCommentText     = 2000
	MaxReplyText       = 2000
)

// PostContent checks a new post body: it needs a description or an
// attachment, and the description must fit the cap.
func PostContent(description string, hasMedia bool) error {
	if description == "" && !hasMedia {
		return errors.New("Post needs a description or an attachment")
	}
	return PostDescription(description)
}

// PostDescription checks the description length alone, for edits.
func PostDescription(description string) error {
	return fits("Description", description, MaxPostDescription)
}

// CommentContent checks a new comment body: text or an attachment.
func CommentContent(text string, hasMedia bool) error {
	if text == "" && !hasMedia {
		return errors.New("Cannot add an empty comment")
	}
	return CommentText(text)
}

// CommentText checks the text length alone, for edits.
func CommentText(text string) error {
	return fits("Comment text", text, MaxCommentText)
}

// ReplyText checks reply text. Replies carry no media, so text is required.
func ReplyText(text string) error {
	if text == "" {
		return errors.New("Reply text cannot be empty")
	}
	return fits("Reply text", text, MaxReplyText)
}

func fits(field, s string, max int) error {
	if utf8.RuneCountInString(s) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}
