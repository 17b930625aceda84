package attendance

import (
	"context"
	"testing"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/course"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

type fakeRepository struct {
	session     Session
	sessions    []Session
	enrollments map[int]course.Enrollment // keyed by enrollment id, all in session's group
	groupRecs   map[int][]Attendance
	upserted    []Attendance
	upsertErr   error
}

func (r *fakeRepository) CreateSession(_ context.Context, sess *Session) error {
	sess.ID = 1
	r.session = *sess
	return nil
}

func (r *fakeRepository) GetSessionByID(_ context.Context, id int) (Session, error) {
	if id != r.session.ID {
		return Session{}, ErrNotFound
	}
	return r.session, nil
}

func (r *fakeRepository) FilterSessionsByGroup(context.Context, int) ([]Session, error) {
	return r.sessions, nil
}

func (r *fakeRepository) FilterSessionsByTeacher(context.Context, int) ([]Session, error) {
	return r.sessions, nil
}

func (r *fakeRepository) UpsertAttendance(_ context.Context, att *Attendance) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	att.ID = len(r.upserted) + 1
	r.upserted = append(r.upserted, *att)
	return nil
}

func (r *fakeRepository) FilterStudentAttendance(context.Context, int, HistoryFilter) ([]Attendance, error) {
	return nil, nil
}

func (r *fakeRepository) FilterGroupAttendance(_ context.Context, groupID int) ([]Attendance, error) {
	return r.groupRecs[groupID], nil
}

func (r *fakeRepository) GetGroupEnrollment(_ context.Context, enrollmentID, groupID int) (course.Enrollment, error) {
	enr, ok := r.enrollments[enrollmentID]
	if !ok || groupID != r.session.GroupID {
		return course.Enrollment{}, ErrNotFound
	}
	return enr, nil
}

type fakeGroupGetter struct {
	groups    map[int]course.Group
	schedules map[int][]course.Schedule
	enrolled  map[int]int
}

func (g *fakeGroupGetter) GetGroup(_ context.Context, id int) (course.Group, error) {
	group, ok := g.groups[id]
	if !ok {
		return course.Group{}, course.ErrNotFound
	}
	return group, nil
}

func (g *fakeGroupGetter) GroupSchedules(_ context.Context, groupID int) ([]course.Schedule, error) {
	return g.schedules[groupID], nil
}

func (g *fakeGroupGetter) TeacherGroups(_ context.Context, _ user.TeacherProfile) ([]course.Group, error) {
	out := make([]course.Group, 0, len(g.groups))
	for id := 1; id <= len(g.groups); id++ {
		out = append(out, g.groups[id])
	}
	return out, nil
}

func (g *fakeGroupGetter) CountGroupEnrollments(_ context.Context, groupID int, _ bool) (int, error) {
	return g.enrolled[groupID], nil
}

func ownedGroupFixture(groupID, teacherUserID int) course.Group {
	return course.Group{
		ID:        groupID,
		TeacherID: 7,
		Name:      "A1-01",
		Teacher:   &course.TeacherInfo{ProfileID: 7, UserID: teacherUserID},
	}
}

func TestCreateSession(t *testing.T) {
	teacher := user.User{ID: 10, Role: user.RoleTeacher}
	groups := &fakeGroupGetter{
		groups: map[int]course.Group{
			5: ownedGroupFixture(5, teacher.ID),
			6: ownedGroupFixture(6, teacher.ID), // no schedules
		},
		schedules: map[int][]course.Schedule{
			5: {{ID: 2, GroupID: 5}, {ID: 3, GroupID: 5}},
		},
	}
	svc := NewService(&fakeRepository{}, groups)
	ctx := context.Background()

	valid := NewSession{GroupID: 5, ScheduleID: 3, Date: "2025-03-10", StartTime: "08:00", EndTime: "10:00", Topic: "  Past simple  "}

	sess, err := svc.CreateSession(ctx, teacher, valid)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID == 0 || sess.Topic != "Past simple" || sess.ScheduleID != 3 {
		t.Errorf("session = %+v", sess)
	}

	t.Run("schedule defaults to the group's first", func(t *testing.T) {
		ns := valid
		ns.ScheduleID = 0
		sess, err := svc.CreateSession(ctx, teacher, ns)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if sess.ScheduleID != 2 {
			t.Errorf("ScheduleID = %d, want 2", sess.ScheduleID)
		}
	})

	tests := []struct {
		name string
		ns   NewSession
	}{
		{"bad date", NewSession{GroupID: 5, Date: "10/03/2025", StartTime: "08:00", EndTime: "10:00"}},
		{"bad start time", NewSession{GroupID: 5, Date: "2025-03-10", StartTime: "8am", EndTime: "10:00"}},
		{"end before start", NewSession{GroupID: 5, Date: "2025-03-10", StartTime: "10:00", EndTime: "08:00"}},
		{"group without schedules", NewSession{GroupID: 6, Date: "2025-03-10", StartTime: "08:00", EndTime: "10:00"}},
		{"foreign schedule", NewSession{GroupID: 5, ScheduleID: 44, Date: "2025-03-10", StartTime: "08:00", EndTime: "10:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSession(ctx, teacher, tt.ns)
			if _, ok := err.(*core.ValidationError); !ok {
				t.Errorf("CreateSession() error = %v, want *core.ValidationError", err)
			}
		})
	}

	t.Run("foreign group", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, user.User{ID: 99, Role: user.RoleTeacher}, valid)
		if _, ok := err.(*core.PermissionError); !ok {
			t.Errorf("CreateSession() error = %v, want *core.PermissionError", err)
		}
	})
}

func TestTeacherSessionsGroupScope(t *testing.T) {
	repo := &fakeRepository{sessions: []Session{{ID: 1, GroupID: 5}}}
	groups := &fakeGroupGetter{groups: map[int]course.Group{5: ownedGroupFixture(5, 10)}}
	svc := NewService(repo, groups)
	ctx := context.Background()

	// owner of group 5 holds teacher profile 7
	sessions, err := svc.TeacherSessions(ctx, user.TeacherProfile{ID: 7}, 5)
	if err != nil {
		t.Fatalf("TeacherSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("len(sessions) = %d, want 1", len(sessions))
	}

	// another teacher must not see the group's sessions
	_, err = svc.TeacherSessions(ctx, user.TeacherProfile{ID: 8}, 5)
	if _, ok := err.(*core.PermissionError); !ok {
		t.Errorf("TeacherSessions() error = %v, want *core.PermissionError", err)
	}
}

func TestMarkBatchBestEffort(t *testing.T) {
	teacher := user.User{ID: 10, Role: user.RoleTeacher}
	repo := &fakeRepository{
		session: Session{ID: 1, GroupID: 5},
		enrollments: map[int]course.Enrollment{
			21: {ID: 21, IsActive: true},
			22: {ID: 22, IsActive: true},
		},
	}
	groups := &fakeGroupGetter{groups: map[int]course.Group{5: ownedGroupFixture(5, teacher.ID)}}
	svc := NewService(repo, groups)

	items := []MarkItem{
		{EnrollmentID: 21, Status: StatusPresent},
		{EnrollmentID: 99, Status: StatusAbsent},    // not in group
		{EnrollmentID: 22, Status: "participating"}, // unknown status
		{EnrollmentID: 22, Status: StatusLate, Notes: " llegó tarde "},
	}

	results, recorded, err := svc.MarkBatch(context.Background(), teacher, 1, items)
	if err != nil {
		t.Fatalf("MarkBatch() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}

	wantOK := []bool{true, false, false, true}
	for i, res := range results {
		if res.OK != wantOK[i] {
			t.Errorf("results[%d] = %+v, want OK=%t", i, res, wantOK[i])
		}
		if !res.OK && res.Error == "" {
			t.Errorf("results[%d] failed without an error message", i)
		}
	}
	if len(recorded) != 2 {
		t.Fatalf("len(recorded) = %d, want 2", len(recorded))
	}
	if recorded[1].Notes != "llegó tarde" {
		t.Errorf("Notes = %q, want trimmed", recorded[1].Notes)
	}
}

func TestMarkBatchForeignSession(t *testing.T) {
	repo := &fakeRepository{session: Session{ID: 1, GroupID: 5}}
	groups := &fakeGroupGetter{groups: map[int]course.Group{5: ownedGroupFixture(5, 10)}}
	svc := NewService(repo, groups)

	_, _, err := svc.MarkBatch(context.Background(), user.User{ID: 99}, 1, nil)
	if _, ok := err.(*core.PermissionError); !ok {
		t.Errorf("MarkBatch() error = %v, want *core.PermissionError", err)
	}
}

func TestTeacherStats(t *testing.T) {
	recs := func(statuses ...string) []Attendance {
		out := make([]Attendance, len(statuses))
		for i, st := range statuses {
			out[i] = Attendance{Status: st}
		}
		return out
	}

	repo := &fakeRepository{
		session:  Session{ID: 1, GroupID: 1},
		sessions: []Session{{ID: 1, GroupID: 1}, {ID: 2, GroupID: 1}, {ID: 3, GroupID: 2}},
		groupRecs: map[int][]Attendance{
			1: recs(StatusPresent, StatusPresent, StatusPresent, StatusLate), // 3 of 4 present
			2: recs(StatusPresent, StatusAbsent),                            // 1 of 2 present
		},
	}
	groups := &fakeGroupGetter{
		groups: map[int]course.Group{
			1: ownedGroupFixture(1, 10),
			2: ownedGroupFixture(2, 10),
		},
		enrolled: map[int]int{1: 12, 2: 8},
	}
	svc := NewService(repo, groups)

	stats, err := svc.TeacherStats(context.Background(), user.TeacherProfile{ID: 7})
	if err != nil {
		t.Fatalf("TeacherStats() error = %v", err)
	}
	if len(stats.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(stats.Groups))
	}
	// 4 present across 6 records, not a mean of per-group percentages
	if stats.AveragePercentage != 66.7 {
		t.Errorf("AveragePercentage = %v, want 66.7", stats.AveragePercentage)
	}
	if stats.TotalSessions != 3 || stats.TotalGroups != 2 {
		t.Errorf("TotalSessions = %d, TotalGroups = %d, want 3 and 2", stats.TotalSessions, stats.TotalGroups)
	}
	if stats.Groups[0].Enrolled != 12 || stats.Groups[0].Stats.AttendancePercentage != 75.0 {
		t.Errorf("Groups[0] = %+v", stats.Groups[0])
	}
	if stats.Groups[1].Enrolled != 8 || stats.Groups[1].Stats.AttendancePercentage != 50.0 {
		t.Errorf("Groups[1] = %+v", stats.Groups[1])
	}
}

func TestTeacherStatsNoGroups(t *testing.T) {
	svc := NewService(&fakeRepository{}, &fakeGroupGetter{})

	stats, err := svc.TeacherStats(context.Background(), user.TeacherProfile{ID: 7})
	if err != nil {
		t.Fatalf("TeacherStats() error = %v", err)
	}
	if stats.AveragePercentage != 0 || len(stats.Groups) != 0 || stats.Groups == nil {
		t.Errorf("stats = %+v, want zero average and empty non-nil groups", stats)
	}
}
