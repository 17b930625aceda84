package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/attendance"
)

type fakeRepository struct {
	students, teachers            int
	courses, enrollments          int
	news, tasks                   int
	recentEnrollments             []Activity
	recentTasks                   []Activity
	recentNews                    []Activity
	records                       []attendance.Attendance
	sessionsToday                 int
	gotSince                      time.Time
	gotLimit                      int
}

func (r *fakeRepository) CountActiveUsersByRole(_ context.Context, role string) (int, error) {
	if role == "student" {
		return r.students, nil
	}
	return r.teachers, nil
}
func (r *fakeRepository) CountActiveCourses(context.Context) (int, error)     { return r.courses, nil }
func (r *fakeRepository) CountActiveEnrollments(context.Context) (int, error) { return r.enrollments, nil }
func (r *fakeRepository) CountPublishedNews(context.Context) (int, error)     { return r.news, nil }
func (r *fakeRepository) CountActiveTasks(context.Context) (int, error)       { return r.tasks, nil }

func (r *fakeRepository) RecentEnrollments(_ context.Context, since time.Time, limit int) ([]Activity, error) {
	r.gotSince, r.gotLimit = since, limit
	return r.recentEnrollments, nil
}
func (r *fakeRepository) RecentTasks(_ context.Context, _ time.Time, _ int) ([]Activity, error) {
	return r.recentTasks, nil
}
func (r *fakeRepository) RecentNews(_ context.Context, _ time.Time, _ int) ([]Activity, error) {
	return r.recentNews, nil
}
func (r *fakeRepository) AllAttendance(context.Context) ([]attendance.Attendance, error) {
	return r.records, nil
}
func (r *fakeRepository) CountSessionsOn(context.Context, time.Time) (int, error) {
	return r.sessionsToday, nil
}

func activities(typ string, n int, base time.Time) []Activity {
	out := make([]Activity, n)
	for i := range out {
		out[i] = Activity{Type: typ, Timestamp: base}
	}
	return out
}

func TestOverview(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepository{
		students: 40, teachers: 5, courses: 6, enrollments: 55, news: 3, tasks: 9,
		recentEnrollments: activities(ActivityEnrollment, 2, now),
	}
	svc := NewService(repo)

	o, err := svc.Overview(context.Background(), now)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	want := SystemStats{ActiveStudents: 40, ActiveTeachers: 5, ActiveCourses: 6,
		ActiveEnrollments: 55, PublishedNews: 3, ActiveTasks: 9, SystemHealth: systemHealth}
	if o.Stats != want {
		t.Errorf("Stats = %+v, want %+v", o.Stats, want)
	}
	if len(o.RecentActivities) != 2 {
		t.Errorf("len(RecentActivities) = %d, want 2", len(o.RecentActivities))
	}
	if repo.gotLimit != perSourceCap {
		t.Errorf("per-source limit = %d, want %d", repo.gotLimit, perSourceCap)
	}
	if got := now.Sub(repo.gotSince); got != recentWindowDays*24*time.Hour {
		t.Errorf("since window = %v, want %d days", got, recentWindowDays)
	}
}

func TestRecentActivitiesMergeAndCap(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	older := now.Add(-2 * time.Hour)

	repo := &fakeRepository{
		// 5+5+5 candidates collapse to the 10 newest
		recentEnrollments: activities(ActivityEnrollment, 5, now),
		recentTasks:       activities(ActivityTask, 5, now),
		recentNews:        activities(ActivityNews, 5, older),
	}
	svc := NewService(repo)

	o, err := svc.Overview(context.Background(), now)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	feed := o.RecentActivities
	if len(feed) != mergedCap {
		t.Fatalf("len(feed) = %d, want %d", len(feed), mergedCap)
	}

	// stable tie-break keeps source order: enrollments then tasks
	for i := 0; i < 5; i++ {
		if feed[i].Type != ActivityEnrollment {
			t.Errorf("feed[%d].Type = %s, want %s", i, feed[i].Type, ActivityEnrollment)
		}
	}
	for i := 5; i < 10; i++ {
		if feed[i].Type != ActivityTask {
			t.Errorf("feed[%d].Type = %s, want %s", i, feed[i].Type, ActivityTask)
		}
	}
}

func TestGlobalAttendance(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	session := func(d time.Time) *attendance.Session { return &attendance.Session{Date: d} }

	repo := &fakeRepository{
		sessionsToday: 2,
		records: []attendance.Attendance{
			{Status: attendance.StatusPresent, Session: session(now)},
			{Status: attendance.StatusAbsent, Session: session(now)},
			{Status: attendance.StatusPresent, Session: session(now.AddDate(0, 0, -3))},
		},
	}
	svc := NewService(repo)

	got, err := svc.GlobalAttendance(context.Background(), now)
	if err != nil {
		t.Fatalf("GlobalAttendance() error = %v", err)
	}

	if got.Overall.TotalSessions != 3 || got.Overall.AttendancePercentage != 66.7 {
		t.Errorf("Overall = %+v", got.Overall)
	}
	if got.Today.SessionsHeld != 2 || got.Today.RecordsTaken != 2 || got.Today.AttendancePercentage != 50.0 {
		t.Errorf("Today = %+v", got.Today)
	}
	if len(got.WeeklyTrend) != 7 {
		t.Fatalf("len(WeeklyTrend) = %d, want 7", len(got.WeeklyTrend))
	}
	if got.WeeklyTrend[6].Date != "2025-03-10" {
		t.Errorf("trend ends at %s, want 2025-03-10", got.WeeklyTrend[6].Date)
	}
}
