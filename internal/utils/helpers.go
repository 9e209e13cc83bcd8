package utils

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"
)

// West Africa Time timezone
var WATLocation *time.Location

func init() {
	var err error
	WATLocation, err = time.LoadLocation("Africa/Lagos")
	if err != nil {
		// Fallback to fixed offset if timezone data is not available
		WATLocation = time.FixedZone("WAT", 1*60*60) // UTC+1
		log.Printf("Warning: Could not load Africa/Lagos timezone, using fixed offset: %v", err)
	}
}

// Placeholder shown when display data is missing. Formatting never fails on
// incomplete records.
const Placeholder = "N/A"

// NowWAT returns the current time in West Africa Time
func NowWAT() time.Time {
	return time.Now().In(WATLocation)
}

// ToWAT converts a time to West Africa Time
func ToWAT(t time.Time) time.Time {
	return t.In(WATLocation)
}

// FormatCurrency formats an amount as Nigerian Naira with grouped thousands
// and no decimal places, e.g. ₦1,250,000. Negative and zero amounts format
// the same way.
func FormatCurrency(amount float64) string {
	return "₦" + groupThousands(math.Round(amount), 0)
}

// FormatCurrencyDetailed formats an amount as Naira with two decimal places
// for detailed views, e.g. ₦1,250,000.75.
func FormatCurrencyDetailed(amount float64) string {
	return "₦" + groupThousands(amount, 2)
}

// groupThousands renders a number with comma-separated thousands and the
// given number of decimal places.
func groupThousands(amount float64, decimals int) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.*f", decimals, amount)
	intPart := s
	fracPart := ""
	if decimals > 0 {
		intPart = s[:len(s)-decimals-1]
		fracPart = s[len(s)-decimals-1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}

// FormatDate formats a date for display in WAT, e.g. "12 Mar 2025".
// A zero time renders the placeholder.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return ToWAT(t).Format("2 Jan 2006")
}

// FormatDateTime formats a date with time for detailed views, e.g.
// "12 Mar 2025 14:05". A zero time renders the placeholder.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return ToWAT(t).Format("2 Jan 2006 15:04")
}

// FormatPhoneNumber formats a Nigerian phone number for display:
// 08012345678 becomes "0801 234 5678" and 2348012345678 becomes
// "+234 801 234 5678". Unrecognised formats pass through unchanged and an
// empty number renders the placeholder.
func FormatPhoneNumber(phone string) string {
	if phone == "" {
		return Placeholder
	}

	cleaned := nonDigitRegex.ReplaceAllString(phone, "")

	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "0") {
		return fmt.Sprintf("%s %s %s", cleaned[:4], cleaned[4:7], cleaned[7:])
	}
	if len(cleaned) == 13 && strings.HasPrefix(cleaned, "234") {
		return fmt.Sprintf("+%s %s %s %s", cleaned[:3], cleaned[3:6], cleaned[6:9], cleaned[9:])
	}

	return phone
}

// FormatPercentage formats a rate with the given number of decimal places,
// e.g. "12.5%".
func FormatPercentage(value float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// TruncateString truncates a string to maxLength with an ellipsis
func TruncateString(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return text[:maxLength]
	}
	return text[:maxLength-3] + "..."
}

// ParseDate parses a date string in the formats the dashboard sends
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"02/01/2006",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date format: %s", dateStr)
}
