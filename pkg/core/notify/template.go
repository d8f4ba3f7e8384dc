package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dancove/ministry-rota/pkg/core/model"
)

// RenderMessage produces the notification text for one recipient. The output
// is a pure function of (category, recipient, slot data, organization name):
// greeting with the recipient's first name, one line per scheduled slot, and
// a category-specific opening and closing.
func RenderMessage(category model.NotificationCategory, recipient model.RecipientPreview, orgName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s!\n\n", firstName(recipient.VolunteerName))

	switch category {
	case model.CategoryFullSchedule:
		b.WriteString("Here is your serving schedule for the coming period:\n\n")
	case model.CategoryReminder3d:
		b.WriteString("A quick reminder - you are scheduled to serve in 3 days:\n\n")
	case model.CategoryReminder1d:
		b.WriteString("A quick reminder - you are scheduled to serve tomorrow:\n\n")
	case model.CategoryDayOf:
		b.WriteString("Today is the day! You are scheduled to serve:\n\n")
	default:
		b.WriteString("You are scheduled to serve:\n\n")
	}

	for _, slot := range recipient.Slots {
		fmt.Fprintf(&b, "- %s %s at %s, %s: %s\n",
			weekdayOf(slot.Date), formatDate(slot.Date), slot.TimeOfDay, slot.Label, slot.Role)
	}

	switch category {
	case model.CategoryDayOf:
		fmt.Fprintf(&b, "\nSee you there!\n%s\n", orgName)
	default:
		fmt.Fprintf(&b, "\nIf you cannot make a date, please let us know as soon as possible.\n%s\n", orgName)
	}

	return b.String()
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}

func weekdayOf(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "?"
	}
	return parsed.Weekday().String()
}

func formatDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Jan 02")
}
