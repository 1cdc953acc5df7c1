// Package forms holds the input rules applied before anything is sent to
// the backend. The backend stays authoritative; these checks only spare
// the user a round trip.
package forms

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pageza/bitebox/frontend/internal/types"
)

// MaxImageBytes is the largest accepted upload.
const MaxImageBytes = 2 << 20

// Messages shown next to rejected fields.
const (
	MsgNumbersNotAllowed  = "Numbers not allowed"
	MsgSpecialCharacters  = "No special characters allowed"
	MsgImageType          = "Only PNG or JPEG images"
	MsgImageSize          = "Image should be less than 2MB"
	MsgCommentRequired    = "Comment cannot be empty"
	MsgRatingRange        = "Rating must be between 1 and 5 in half steps"
	MsgRequired           = "This field is required"
	MsgMealTypeRequired   = "Pick a meal type"
	MsgGuestNameRequired  = "Tell us who is posting"
	MsgEmailInvalid       = "Enter a valid email"
	MsgCredentialsMissing = "Email and password are required"
)

// usernamePunctuation is the set of characters rejected in usernames.
const usernamePunctuation = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?~`"

// ValidationError reports a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of a form.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// ByField indexes the messages by field name for templates.
func (e ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, v := range e {
		if _, ok := out[v.Field]; !ok {
			out[v.Field] = v.Message
		}
	}
	return out
}

func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateUsername rejects digits and punctuation.
func ValidateUsername(name string) error {
	for _, r := range name {
		if unicode.IsDigit(r) {
			return ValidationError{Field: "user_name", Message: MsgNumbersNotAllowed}
		}
	}
	if strings.ContainsAny(name, usernamePunctuation) {
		return ValidationError{Field: "user_name", Message: MsgSpecialCharacters}
	}
	return nil
}

// ValidateImage checks an uploaded file against the size limit, its
// declared content type and its sniffed content, then reads it.
func ValidateImage(fh *multipart.FileHeader) (*types.Upload, error) {
	if fh.Size > MaxImageBytes {
		return nil, ValidationError{Field: "image", Message: MsgImageSize}
	}
	declared := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(declared, "image/") {
		return nil, ValidationError{Field: "image", Message: MsgImageType}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	upload, err := ValidateImageData(fh.Filename, data)
	if err != nil {
		return nil, err
	}
	upload.ContentType = declared
	return upload, nil
}

// ValidateImageData checks raw image bytes, as read from disk by the CLI.
// The content type is the sniffed one.
func ValidateImageData(filename string, data []byte) (*types.Upload, error) {
	if len(data) > MaxImageBytes {
		return nil, ValidationError{Field: "image", Message: MsgImageSize}
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ValidationError{Field: "image", Message: MsgImageType}
	}
	return &types.Upload{Filename: filename, ContentType: mtype.String(), Data: data}, nil
}

// ValidateComment checks a comment body and its rating.
func ValidateComment(body string, rating float64) error {
	return validateComment(checkRules(types.CommentInput{Comment: body}), rating)
}

// CommentForm is the comment form as posted.
type CommentForm types.CommentInput

// RatingValue parses the posted rating.
func (f CommentForm) RatingValue() float64 {
	return ParseRating(f.Rating)
}

// ValidateBound completes the result of binding the form with the rating
// rule.
func (f CommentForm) ValidateBound(bindErr error) error {
	return validateComment(bindErr, f.RatingValue())
}

func validateComment(bindErr error, rating float64) error {
	errs, err := bound(bindErr)
	if err != nil {
		return err
	}
	if !ValidRating(rating) {
		errs = append(errs, ValidationError{Field: "rating", Message: MsgRatingRange})
	}
	return errs.orNil()
}

// ValidRating accepts 1 to 5 in steps of 0.5.
func ValidRating(rating float64) bool {
	if rating < 1 || rating > 5 {
		return false
	}
	doubled := rating * 2
	return doubled == math.Trunc(doubled)
}

// ParseRating reads a rating from form input. Blank or garbage input reads
// as 0, which ValidRating rejects.
func ParseRating(raw string) float64 {
	r, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
