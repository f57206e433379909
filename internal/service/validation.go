package service

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Beka01247/food-ordering/internal/domain"
)

var (
	digitsRe    = regexp.MustCompile(`^[0-9]+$`)
	expiryRe    = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	dataImageRe = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=\s]+$`)
	localPathRe = regexp.MustCompile(`(?i)^(\.{1,2}/|/)?[\w\-./]+\.(png|jpe?g|gif|webp|svg|avif)$`)
)

// newValidator builds a validator with the shop's custom tags. now is used
// by the card expiry check.
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("menuimage", func(fl validator.FieldLevel) bool {
		return IsMenuImage(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return ValidExpiry(fl.Field().String(), now())
	})

	return v
}

// IsMenuImage accepts an http(s) URL, a local image path or an inline
// base64 data URI.
func IsMenuImage(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "data:") {
		return dataImageRe.MatchString(s)
	}
	if strings.Contains(s, "://") {
		u, err := url.ParseRequestURI(s)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	}
	return localPathRe.MatchString(s)
}

// ValidExpiry reports whether an MM/YY expiry is not earlier than the
// month of now.
func ValidExpiry(s string, now time.Time) bool {
	m := expiryRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000

	if year != now.Year() {
		return year > now.Year()
	}
	return time.Month(month) >= now.Month()
}

var menuItemMessages = map[string]string{
	"Name":        "Name must be at least 2 characters",
	"Description": "Description must be at least 10 characters",
	"Price":       fmt.Sprintf("Price must be between %d and %d", domain.MinMenuItemPrice, domain.MaxMenuItemPrice),
	"Category":    "Category must be one of main, appetizer, grilled, dessert, drink",
	"Image":       "Image must be a URL, a local image path or an inline image",
}

var paymentMessages = map[string]string{
	"CardNumber": "Card number must be exactly 16 digits",
	"CardHolder": "Cardholder name must be at least 2 characters",
	"Expiry":     "Expiry date must be a valid MM/YY that has not passed",
	"CVC":        "CVC must be exactly 3 digits",
	"Phone":      "Phone number must be 10 to 11 digits",
}

// firstValidationError turns validator output into a single user-facing
// ValidationError, picking the first failing field.
func firstValidationError(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate: %w", err)
	}

	fe := verrs[0]
	msg, ok := messages[fe.Field()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return domain.NewValidationError(fe.Field(), msg)
}
