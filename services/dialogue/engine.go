package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calbot/models"
	"calbot/services/calendar"
	"calbot/services/dates"
	"calbot/services/session"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// DefaultDialogueService implements DialogueService on top of a session
// store and the scheduling API.
type DefaultDialogueService struct {
	Store       session.Store
	Dates       dates.Resolver
	Slots       calendar.SlotFetcher
	Booker      calendar.Booker
	Recorder    BookingRecorder // optional
	Location    *time.Location
	HorizonDays int
	Now         func() time.Time
	Logger      *zap.Logger
}

// outcome is the result of one stage handler. finished ends the dialogue and
// removes the session instead of saving it.
type outcome struct {
	reply    *models.Reply
	finished bool
}

func stay(message string) outcome {
	return outcome{reply: models.PendingReply(message)}
}

func (s *DefaultDialogueService) Handle(ctx context.Context, userID, rawText string) (*models.Reply, error) {
	text := strings.TrimSpace(rawText)

	sess, err := s.Store.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		sess = models.NewSession()
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	from := sess.Stage
	logger := s.logger().With(zap.String("user", userID), zap.Stringer("stage", from))

	var out outcome
	switch sess.Stage {
	case models.StageAskName:
		out = s.askName(sess, text)
	case models.StageAskEmail:
		out = s.askEmail(sess, text)
	case models.StageAskDate:
		out, err = s.askDate(ctx, sess, text)
	case models.StageAskSlot:
		out = s.askSlot(sess, text)
	case models.StageConfirmBooking:
		out, err = s.confirmBooking(ctx, userID, sess, text)
	case models.StageUnknown:
		logger.Warn("session in unknown stage")
		return models.PendingReply(msgRestart), nil
	default:
		logger.Error("stage has no handler")
		return models.PendingReply(msgRestart), nil
	}
	if err != nil {
		return nil, err
	}

	if out.finished {
		if err := s.Store.Delete(ctx, userID); err != nil {
			// The booking already exists; the stale session expires on its own.
			logger.Error("failed to delete completed session", zap.Error(err))
		}
		logger.Info("dialogue completed")
		return out.reply, nil
	}

	if err := s.Store.Save(ctx, userID, sess); err != nil {
		if errors.Is(err, session.ErrConflict) {
			logger.Warn("session changed by a concurrent message")
			return models.PendingReply(msgConcurrentUpdate), nil
		}
		return nil, fmt.Errorf("save session: %w", err)
	}
	logger.Debug("dialogue turn", zap.Stringer("next", sess.Stage))
	return out.reply, nil
}

func (s *DefaultDialogueService) askName(sess *models.Session, text string) outcome {
	if text == "" {
		return stay(msgAskNameAgain)
	}
	sess.Name = text
	sess.Stage = models.StageAskEmail
	return stay(msgAskEmail)
}

func (s *DefaultDialogueService) askEmail(sess *models.Session, text string) outcome {
	if err := validate.Var(text, "required,email"); err != nil {
		return stay(msgInvalidEmail)
	}
	sess.Email = text
	sess.Stage = models.StageAskDate
	return stay(dateGuidance(s.HorizonDays))
}

func (s *DefaultDialogueService) askDate(ctx context.Context, sess *models.Session, text string) (outcome, error) {
	requested, err := s.Dates.Resolve(text, s.now())
	if errors.Is(err, dates.ErrOutsideHorizon) {
		return stay(dateOutsideHorizon(s.HorizonDays)), nil
	}
	if err != nil {
		return stay(msgDateNotUnderstood), nil
	}

	offered := requested
	choices, err := s.Slots.SlotsForDate(ctx, requested)
	if err != nil {
		return outcome{}, fmt.Errorf("fetch slots: %w", err)
	}
	if len(choices) == 0 {
		next, nextChoices, found, err := s.Slots.FindNextAvailable(ctx, requested)
		if err != nil {
			return outcome{}, fmt.Errorf("find next available date: %w", err)
		}
		if !found {
			return stay(noAvailability(requested, s.HorizonDays)), nil
		}
		offered, choices = next, nextChoices
	}

	sess.Date = dates.ISO(offered)
	sess.Slots = choices
	sess.Stage = models.StageAskSlot
	return stay(slotList(requested, offered, choices)), nil
}

func (s *DefaultDialogueService) askSlot(sess *models.Session, text string) outcome {
	if len(sess.Slots) == 0 {
		sess.ResetToDate()
		return stay(msgAskNewDate)
	}
	slot, ok := sess.Slots.Lookup(text)
	if !ok {
		return stay(invalidChoice(sess.Slots))
	}
	sess.SelectedSlot = &slot
	sess.Stage = models.StageConfirmBooking
	return stay(confirmSummary(sess))
}

func (s *DefaultDialogueService) confirmBooking(ctx context.Context, userID string, sess *models.Session, text string) (outcome, error) {
	switch strings.ToLower(text) {
	case "no":
		sess.ResetToDate()
		return stay(msgAskNewDate), nil
	case "yes":
	default:
		return stay(msgConfirmYesNo), nil
	}

	if sess.SelectedSlot == nil {
		sess.ResetToDate()
		return stay(msgAskNewDate), nil
	}

	conf, err := s.Booker.Book(ctx, sess.Name, sess.Email, sess.SelectedSlot.IsoStart)
	if errors.Is(err, calendar.ErrBookingFailed) {
		return stay(msgBookingFailed), nil
	}
	if err != nil {
		return outcome{}, fmt.Errorf("submit booking: %w", err)
	}

	s.record(ctx, userID, sess, conf)
	return outcome{reply: models.BookedReply(bookedMessage(sess, conf, s.location())), finished: true}, nil
}

func (s *DefaultDialogueService) record(ctx context.Context, userID string, sess *models.Session, conf *models.Confirmation) {
	if s.Recorder == nil {
		return
	}
	rec := models.BookingRecord{
		UserID:        userID,
		AttendeeName:  sess.Name,
		AttendeeEmail: sess.Email,
		SlotStart:     sess.SelectedSlot.IsoStart,
		ConfirmedAt:   conf.Start,
		MeetingURL:    conf.MeetingURL,
		HostName:      conf.HostName,
		Duration:      conf.Duration,
		BookedAt:      s.now(),
	}
	if err := s.Recorder.RecordBooking(ctx, rec); err != nil {
		s.logger().Error("failed to record booking", zap.String("user", userID), zap.Error(err))
	}
}

func (s *DefaultDialogueService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultDialogueService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *DefaultDialogueService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

var _ DialogueService = (*DefaultDialogueService)(nil)
