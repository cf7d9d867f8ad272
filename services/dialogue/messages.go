package dialogue

import (
	"fmt"
	"strings"
	"time"

	"calbot/models"
	"calbot/services/dates"
)

const (
	msgAskNameAgain      = "Hi 👋 Please share your full name to get started."
	msgAskEmail          = "Thanks 😊 Please share your email ID."
	msgInvalidEmail      = "❌ That doesn't look like a valid email address. Please share your email ID again."
	msgDateNotUnderstood = "❌ Sorry, I couldn't understand that date. Try something like *tomorrow*, *Friday* or *25 Oct*."
	msgAskNewDate        = "No problem 👍 Which other date would you like?"
	msgConfirmYesNo      = "Please reply *yes* to confirm the booking or *no* to choose another date."
	msgBookingFailed     = "⚠️ Failed to book appointment. Reply *yes* to try again or *no* to choose another date."
	msgRestart           = "Something went wrong. Please start again."
	msgConcurrentUpdate  = "⏳ I'm still working on your previous message. Please send that again in a moment."
	bookedTimeLayout     = "02 Jan 2006, 03:04 PM MST"
)

func dateGuidance(horizonDays int) string {
	return fmt.Sprintf(`Got it 👍 Which date would you like to book?

You can reply with:
• *today* or *tomorrow*
• a weekday, e.g. _Friday_
• a day of the month, e.g. _25th_
• a date, e.g. _2026-10-25_ or _25 Oct_

Bookings are open for the next %d days.`, horizonDays)
}

func dateOutsideHorizon(horizonDays int) string {
	return fmt.Sprintf("❌ Please pick a date between today and the next %d days.", horizonDays)
}

func noAvailability(requested time.Time, horizonDays int) string {
	return fmt.Sprintf("⚠️ No slots are available on *%s* or in the following %d days. Please try another date later.",
		dates.Format(requested), horizonDays)
}

func slotList(requested, offered time.Time, choices models.SlotChoices) string {
	var b strings.Builder
	if !requested.Equal(offered) {
		fmt.Fprintf(&b, "⚠️ No slots are available on *%s*.\nThe next available date is *%s*.\n\n",
			dates.Format(requested), dates.Format(offered))
	}
	fmt.Fprintf(&b, "🕒 *Available slots for %s:*\n\n", dates.Format(offered))
	for _, k := range choices.Keys() {
		fmt.Fprintf(&b, "%s. %s\n", k, choices[k].Label)
	}
	fmt.Fprintf(&b, "\nReply with *%s*.", choices.ChoiceList())
	return b.String()
}

func invalidChoice(choices models.SlotChoices) string {
	return fmt.Sprintf("❌ Invalid choice. Please reply with %s.", choices.ChoiceList())
}

func confirmSummary(s *models.Session) string {
	return fmt.Sprintf(`📋 *Please confirm your booking:*

👤 *Name:* %s
📧 *Email:* %s
📅 *Slot:* %s

Reply *yes* to confirm or *no* to choose another date.`, s.Name, s.Email, s.SelectedSlot.Label)
}

func bookedMessage(s *models.Session, conf *models.Confirmation, loc *time.Location) string {
	when := "N/A"
	if !conf.Start.IsZero() {
		when = conf.Start.In(loc).Format(bookedTimeLayout)
	}
	return fmt.Sprintf(`✅ *Appointment Confirmed!*

👤 *Attendee:* %s
📧 *Email:* %s
🧑‍💼 *Host:* %s

📅 *Date & Time:* %s
⏱ *Duration:* %d minutes

🔗 *Meeting Link:*
%s

Looking forward to the meeting 😊`, s.Name, s.Email, conf.HostName, when, conf.Duration, conf.MeetingURL)
}
