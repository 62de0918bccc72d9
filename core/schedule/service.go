package schedule

import (
	"bytes"
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/event"
)

// ParticipantFilter narrows ListParticipants. Zero value means everyone.
type ParticipantFilter struct {
	IDs       []string
	CourseTag string
}

// Scope narrows ListAssignments. Zero value means all assignments.
type Scope struct {
	ParticipantID string // assignments this participant is enrolled in
	CourseTag     string // assignments with this course tag
}

// Repository is the data access contract for matching. External storage is
// someone else's concern; the matcher only ever reads through this.
type Repository interface {
	ListParticipants(ctx context.Context, filter ParticipantFilter) ([]Participant, error)
	ListFreeTime(ctx context.Context, participantID string, notBefore time.Time) ([]FreeTimeSlot, error)
	ListAssignments(ctx context.Context, scope Scope) ([]Assignment, error)
	ListGroups(ctx context.Context, assignmentIDs ...string) ([]StudyGroup, error)
}

var ErrAssignmentNotFound = errors.New("assignment not found")

type Service struct {
	repo    Repository
	mailSvc core.EmailService
	conf    *core.Config
	logger  core.Logger
}

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
		logger:  logger,
	}
}

// SuggestionsFor computes ranked meeting suggestions across every assignment
// the participant is enrolled in.
func (svc *Service) SuggestionsFor(ctx context.Context, participantID string, now time.Time) ([]MeetingSuggestion, error) {
	assignments, err := svc.repo.ListAssignments(ctx, Scope{ParticipantID: participantID})
	if err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	groups, err := svc.repo.ListGroups(ctx, ids...)
	if err != nil {
		return nil, errors.Wrap(err, "listing study groups")
	}

	participants, freeTime, err := svc.collectAvailability(ctx, groups)
	if err != nil {
		return nil, err
	}
	return ComputeSuggestions(participants, freeTime, assignments, groups, now, svc.conf.Scheduling.MinMeetingDuration)
}

// collectAvailability resolves every distinct group member into a
// Participant plus their declared free time.
func (svc *Service) collectAvailability(ctx context.Context, groups []StudyGroup) ([]Participant, []FreeTimeSlot, error) {
	var memberIDs []string
	for _, g := range groups {
		memberIDs = append(memberIDs, g.MemberIDs...)
	}
	memberIDs = dedupSorted(memberIDs)
	if len(memberIDs) == 0 {
		return nil, nil, nil
	}

	participants, err := svc.repo.ListParticipants(ctx, ParticipantFilter{IDs: memberIDs})
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing participants")
	}

	var freeTime []FreeTimeSlot
	for _, p := range participants {
		slots, err := svc.repo.ListFreeTime(ctx, p.ID, time.Time{})
		if err != nil {
			return nil, nil, errors.Wrapf(err, "listing free time for %q", p.ID)
		}
		freeTime = append(freeTime, slots...)
	}
	return participants, freeTime, nil
}

// BestBlockFor finds the single longest window shared by an assignment's
// group before its due date, relaxing the required head count down to pairs
// when the whole group never lines up.
func (svc *Service) BestBlockFor(ctx context.Context, assignmentID string) (Window, int, error) {
	assignments, err := svc.repo.ListAssignments(ctx, Scope{})
	if err != nil {
		return Window{}, 0, errors.Wrap(err, "listing assignments")
	}
	var assignment *Assignment
	for i := range assignments {
		if assignments[i].ID == assignmentID {
			assignment = &assignments[i]
			break
		}
	}
	if assignment == nil {
		return Window{}, 0, ErrAssignmentNotFound
	}

	memberIDs, err := svc.resolveMembers(ctx, assignments, assignmentID)
	if err != nil {
		return Window{}, 0, err
	}

	var slots []FreeTimeSlot
	for _, id := range memberIDs {
		memberSlots, err := svc.repo.ListFreeTime(ctx, id, time.Time{})
		if err != nil {
			return Window{}, 0, errors.Wrapf(err, "listing free time for %q", id)
		}
		for _, s := range memberSlots {
			if s.End.Before(assignment.DueAt) {
				slots = append(slots, s)
			}
		}
	}

	block, size, ok := LargestCommonBlock(slots, len(memberIDs))
	if !ok {
		return Window{}, 0, nil
	}
	return block, size, nil
}

// Assignments lists assignments, optionally narrowed by scope.
func (svc *Service) Assignments(ctx context.Context, scope Scope) ([]Assignment, error) {
	return svc.repo.ListAssignments(ctx, scope)
}

// GroupFor resolves an assignment's study group, falling back to course
// mates when the assignment has no explicit members of its own.
func (svc *Service) GroupFor(ctx context.Context, assignmentID string) (StudyGroup, error) {
	assignments, err := svc.repo.ListAssignments(ctx, Scope{})
	if err != nil {
		return StudyGroup{}, errors.Wrap(err, "listing assignments")
	}
	var found bool
	for _, a := range assignments {
		if a.ID == assignmentID {
			found = true
			break
		}
	}
	if !found {
		return StudyGroup{}, ErrAssignmentNotFound
	}

	memberIDs, err := svc.resolveMembers(ctx, assignments, assignmentID)
	if err != nil {
		return StudyGroup{}, err
	}
	return StudyGroup{ID: assignmentID, AssignmentID: assignmentID, MemberIDs: memberIDs}, nil
}

// resolveMembers resolves one assignment's membership against the full
// assignment and group state, course-tag fallback included.
func (svc *Service) resolveMembers(ctx context.Context, assignments []Assignment, assignmentID string) ([]string, error) {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}
	groups, err := svc.repo.ListGroups(ctx, ids...)
	if err != nil {
		return nil, errors.Wrap(err, "listing study groups")
	}
	return resolveMembership(assignments, groups)[assignmentID], nil
}

// OverlapsBetween lists the shared availability of two participants.
func (svc *Service) OverlapsBetween(ctx context.Context, participantA, participantB string) ([]Overlap, error) {
	slotsA, err := svc.repo.ListFreeTime(ctx, participantA, time.Time{})
	if err != nil {
		return nil, errors.Wrapf(err, "listing free time for %q", participantA)
	}
	slotsB, err := svc.repo.ListFreeTime(ctx, participantB, time.Time{})
	if err != nil {
		return nil, errors.Wrapf(err, "listing free time for %q", participantB)
	}
	return OverlapsBetween(slotsA, slotsB), nil
}

// Invitation is a meeting invite as submitted, loose text and all.
type Invitation struct {
	Event event.Raw `json:"event"`
}

// InviteResult is the normalized meeting plus its calendar link, as returned
// to the caller and as mailed to attendees.
type InviteResult struct {
	Event        event.Normalized `json:"event"`
	CalendarLink string           `json:"calendar_link"`
}

// NormalizeEvent resolves loose event text into a concrete window plus its
// calendar link, without sending anything.
func (svc *Service) NormalizeEvent(raw event.Raw, now time.Time) InviteResult {
	n := event.Normalize(raw, now, event.Options{
		DefaultDuration: svc.conf.Scheduling.DefaultEventDuration,
		YearSanityYears: svc.conf.Scheduling.YearSanityYears,
	})
	return InviteResult{Event: n, CalendarLink: event.GoogleCalendarLink(n)}
}

// SendInvite normalizes the invitation, mails every attendee a calendar link
// and an .ics attachment, and returns the normalized result. An invite with
// no extractable attendees is a validation error.
func (svc *Service) SendInvite(ctx context.Context, inv Invitation, now time.Time) (InviteResult, error) {
	res := svc.NormalizeEvent(inv.Event, now)
	n := res.Event
	if len(n.AttendeeEmails) == 0 {
		err := errors.New("no attendees")
		return InviteResult{}, core.NewValidationError(err, core.FieldError{Field: "attendees_text", Error: "no attendee emails found"})
	}

	ics, err := event.ICS(n, uuid.New().String(), now)
	if err != nil {
		return InviteResult{}, errors.Wrap(err, "building ics attachment")
	}

	to := make([]mail.Address, 0, len(n.AttendeeEmails))
	for _, addr := range n.AttendeeEmails {
		to = append(to, mail.Address{Address: addr})
	}
	subject := n.Title
	if subject == "" {
		subject = "Study session"
	}
	msg := &core.EmailMessage{
		To:           to,
		Subject:      subject,
		TemplateName: "meeting-invite",
		TemplateData: res,
	}
	if err := msg.Attach(bytes.NewReader(ics), "invite.ics", "text/calendar"); err != nil {
		return InviteResult{}, errors.Wrap(err, "attaching ics")
	}
	svc.mailSvc.SendMessages(msg)

	svc.logger.Info("meeting invite sent", map[string]interface{}{
		"title":     n.Title,
		"attendees": len(n.AttendeeEmails),
		"fallback":  n.UsedFallback,
	})
	return res, nil
}
