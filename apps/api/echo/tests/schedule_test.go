package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/studysync/studysync/apps/api/echo"
	"github.com/studysync/studysync/core/event"
	"github.com/studysync/studysync/core/schedule"
	emailsvc "github.com/studysync/studysync/services/email"
	testutil "github.com/studysync/studysync/tests"
)

func Test_scheduleApi_queryAssignments(t *testing.T) {
	testutil.ResetDB(t, db)

	dueAt := time.Date(2027, 3, 1, 23, 59, 0, 0, time.UTC)
	awa := testutil.CreateStudent(t, stuRepo, "Awa Ndiaye", "awa@test.cd")

	cs := testutil.AddAssignment(t, stuRepo, awa, "CS225 Problem Set 1", dueAt)
	math := testutil.AddAssignment(t, stuRepo, awa, "MATH31 Homework 2", dueAt.Add(24*time.Hour))

	tests := []httpTest{
		{name: "Get all", path: "/v1/assignments", wantCode: http.StatusOK, wantData: marchallList(t, cs, math)},
		{name: "by course tag", path: "/v1/assignments?course_tag=CS225", wantCode: http.StatusOK, wantData: marchallList(t, cs)},
		{name: "unknown course tag", path: "/v1/assignments?course_tag=BIO1", wantCode: http.StatusOK, wantData: marchallList(t, []interface{}{}...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_scheduleApi_group(t *testing.T) {
	testutil.ResetDB(t, db)

	dueAt := time.Date(2027, 3, 1, 23, 59, 0, 0, time.UTC)
	awa := testutil.CreateStudent(t, stuRepo, "Awa Ndiaye", "awa@test.cd")
	jo := testutil.CreateStudent(t, stuRepo, "Jo Doe", "jo@test.cd")

	assignment := testutil.AddAssignment(t, stuRepo, awa, "CS225 Problem Set 1", dueAt)
	testutil.AddAssignment(t, stuRepo, jo, "CS225 Problem Set 1", dueAt)

	tests := []httpTest{
		{
			name: "group found", path: "/v1/assignments/" + assignment.ID + "/group",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, schedule.StudyGroup{
				ID:           assignment.ID,
				AssignmentID: assignment.ID,
				MemberIDs:    []string{awa.Email, jo.Email},
			}),
		},
		{
			name: "unknown assignment", path: "/v1/assignments/nope/group",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_scheduleApi_bestBlock(t *testing.T) {
	testutil.ResetDB(t, db)

	base := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	dueAt := base.Add(7 * 24 * time.Hour)

	awa := testutil.CreateStudent(t, stuRepo, "Awa Ndiaye", "awa@test.cd")
	jo := testutil.CreateStudent(t, stuRepo, "Jo Doe", "jo@test.cd")
	lea := testutil.CreateStudent(t, stuRepo, "Lea Doe", "lea@test.cd")

	assignment := testutil.AddAssignment(t, stuRepo, awa, "CS225 Problem Set 1", dueAt)
	testutil.AddAssignment(t, stuRepo, jo, "CS225 Problem Set 1", dueAt)
	testutil.AddAssignment(t, stuRepo, lea, "CS225 Problem Set 1", dueAt)

	testutil.AddFreeTime(t, stuRepo, awa, base, base.Add(4*time.Hour))
	testutil.AddFreeTime(t, stuRepo, jo, base.Add(1*time.Hour), base.Add(3*time.Hour))
	testutil.AddFreeTime(t, stuRepo, lea, base.Add(2*time.Hour), base.Add(6*time.Hour))

	t.Run("whole group lines up", func(t *testing.T) {
		tt := httpTest{
			path:     "/v1/assignments/" + assignment.ID + "/best-block",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.BestBlockResponse{
				Block:     &schedule.Window{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour)},
				GroupSize: 3,
			}),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("no shared window", func(t *testing.T) {
		loner := testutil.AddAssignment(t, stuRepo, awa, "MATH31 Homework 2", dueAt)
		tt := httpTest{
			path:     "/v1/assignments/" + loner.ID + "/best-block",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.BestBlockResponse{}),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		req, rec := newRequest("", "/v1/assignments/nope/best-block")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_scheduleApi_normalizeEvent(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		body := marchallObj(t, event.Raw{
			Title:         "CS225 study session",
			DateText:      "2026-03-05",
			TimeText:      "7pm - 9pm",
			AttendeesText: "awa@test.cd, jo@test.cd",
			Location:      "Library room 2",
		})
		req, rec := newRequest(http.MethodPost, "/v1/events/normalize", body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res schedule.InviteResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Event.Start.Equal(time.Date(2026, 3, 5, 19, 0, 0, 0, time.UTC)))
		assert.True(t, res.Event.End.Equal(time.Date(2026, 3, 5, 21, 0, 0, 0, time.UTC)))
		assert.Equal(t, []string{"awa@test.cd", "jo@test.cd"}, res.Event.AttendeeEmails)
		assert.False(t, res.Event.UsedFallback)
		assert.Contains(t, res.CalendarLink, "action=TEMPLATE")
		assert.Contains(t, res.CalendarLink, "dates=20260305T190000/20260305T210000")
	})

	t.Run("unparseable date falls back", func(t *testing.T) {
		body := marchallObj(t, event.Raw{Title: "vague plans", DateText: "whenever works"})
		req, rec := newRequest(http.MethodPost, "/v1/events/normalize", body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res schedule.InviteResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Event.UsedFallback)
		assert.True(t, res.Event.End.Equal(res.Event.Start.Add(conf.Scheduling.DefaultEventDuration)))
	})
}

func Test_scheduleApi_invite(t *testing.T) {
	t.Run("no attendees", func(t *testing.T) {
		body := marchallObj(t, schedule.Invitation{Event: event.Raw{Title: "CS225 study session", DateText: "2026-03-05", TimeText: "7pm"}})
		req, rec := newRequest(http.MethodPost, "/v1/meetings/invite", body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"attendees_text": "no attendee emails found"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("sends mail with ics attachment", func(t *testing.T) {
		sentBefore := len(emailsvc.SentMessages)

		body := marchallObj(t, schedule.Invitation{Event: event.Raw{
			Title:         "CS225 study session",
			DateText:      "2026-03-05",
			TimeText:      "7pm - 9pm",
			AttendeesText: "Awa <awa@test.cd>, Jo <jo@test.cd>",
		}})
		req, rec := newRequest(http.MethodPost, "/v1/meetings/invite", body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res schedule.InviteResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, []string{"awa@test.cd", "jo@test.cd"}, res.Event.AttendeeEmails)
		assert.NotEmpty(t, res.CalendarLink)

		require.Len(t, emailsvc.SentMessages, sentBefore+1)
		msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
		assert.Equal(t, "CS225 study session", msg.Subject)
		assert.Len(t, msg.To, 2)
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "invite.ics", msg.Attachments[0].Filename)
		assert.True(t, strings.Contains(msg.TextContent, "calendar.google.com"))
	})
}

func Test_home(t *testing.T) {
	req, rec := newRequest("", "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("Welcome to %s API!", conf.AppName), rec.Body.String())
}
