package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/attendance"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/user"
)

// Activity types
const (
	ActivityEnrollment = "enrollment"
	ActivityTask       = "task"
	ActivityNews       = "news"
)

const (
	// recentWindowDays bounds how far back recent activity reaches.
	recentWindowDays = 7
	// perSourceCap bounds each activity source before merging.
	perSourceCap = 5
	// mergedCap bounds the merged activity feed.
	mergedCap = 10
)

// systemHealth is reported as a constant until real uptime metrics exist.
const systemHealth = 98.5

type (
	// SystemStats are the admin dashboard headline counts.
	SystemStats struct {
		ActiveStudents    int     `json:"active_students"`
		ActiveTeachers    int     `json:"active_teachers"`
		ActiveCourses     int     `json:"active_courses"`
		ActiveEnrollments int     `json:"active_enrollments"`
		PublishedNews     int     `json:"published_news"`
		ActiveTasks       int     `json:"active_tasks"`
		SystemHealth      float64 `json:"system_health"`
	}

	// Activity is one entry of the merged recent-activity feed.
	Activity struct {
		Type        string    `json:"type"`
		Description string    `json:"description"`
		Timestamp   time.Time `json:"timestamp"`
	}

	// AttendanceToday is the day's attendance snapshot.
	AttendanceToday struct {
		SessionsHeld         int     `json:"sessions_held"`
		RecordsTaken         int     `json:"records_taken"`
		AttendancePercentage float64 `json:"attendance_percentage"`
	}

	// GlobalAttendance is the admin-wide attendance view.
	GlobalAttendance struct {
		Overall     attendance.Summary      `json:"overall"`
		Today       AttendanceToday         `json:"today"`
		WeeklyTrend []attendance.TrendPoint `json:"weekly_trend"`
	}

	Overview struct {
		Stats            SystemStats `json:"stats"`
		RecentActivities []Activity  `json:"recent_activities"`
	}

	Repository interface {
		CountActiveUsersByRole(ctx context.Context, role string) (int, error)
		CountActiveCourses(ctx context.Context) (int, error)
		CountActiveEnrollments(ctx context.Context) (int, error)
		CountPublishedNews(ctx context.Context) (int, error)
		CountActiveTasks(ctx context.Context) (int, error)

		// Recent* return at most limit rows created since the cutoff,
		// newest first.
		RecentEnrollments(ctx context.Context, since time.Time, limit int) ([]Activity, error)
		RecentTasks(ctx context.Context, since time.Time, limit int) ([]Activity, error)
		RecentNews(ctx context.Context, since time.Time, limit int) ([]Activity, error)

		// AllAttendance returns every attendance record with sessions loaded.
		AllAttendance(ctx context.Context) ([]attendance.Attendance, error)
		CountSessionsOn(ctx context.Context, day time.Time) (int, error)
	}

	Service interface {
		Overview(ctx context.Context, now time.Time) (Overview, error)
		GlobalAttendance(ctx context.Context, now time.Time) (GlobalAttendance, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Overview(ctx context.Context, now time.Time) (Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Stats, err = svc.systemStats(ctx); err != nil {
		return Overview{}, err
	}
	if o.RecentActivities, err = svc.recentActivities(ctx, now); err != nil {
		return Overview{}, err
	}
	return o, nil
}

func (svc *service) systemStats(ctx context.Context) (SystemStats, error) {
	var (
		s   SystemStats
		err error
	)
	if s.ActiveStudents, err = svc.repo.CountActiveUsersByRole(ctx, user.RoleStudent); err != nil {
		return SystemStats{}, err
	}
	if s.ActiveTeachers, err = svc.repo.CountActiveUsersByRole(ctx, user.RoleTeacher); err != nil {
		return SystemStats{}, err
	}
	if s.ActiveCourses, err = svc.repo.CountActiveCourses(ctx); err != nil {
		return SystemStats{}, err
	}
	if s.ActiveEnrollments, err = svc.repo.CountActiveEnrollments(ctx); err != nil {
		return SystemStats{}, err
	}
	if s.PublishedNews, err = svc.repo.CountPublishedNews(ctx); err != nil {
		return SystemStats{}, err
	}
	if s.ActiveTasks, err = svc.repo.CountActiveTasks(ctx); err != nil {
		return SystemStats{}, err
	}
	s.SystemHealth = systemHealth
	return s, nil
}

// recentActivities merges the three capped activity sources into one feed,
// newest first. The sort is stable so same-timestamp entries keep their
// source order: enrollments, then tasks, then news.
func (svc *service) recentActivities(ctx context.Context, now time.Time) ([]Activity, error) {
	since := now.AddDate(0, 0, -recentWindowDays)

	enrollments, err := svc.repo.RecentEnrollments(ctx, since, perSourceCap)
	if err != nil {
		return nil, err
	}
	tasks, err := svc.repo.RecentTasks(ctx, since, perSourceCap)
	if err != nil {
		return nil, err
	}
	news, err := svc.repo.RecentNews(ctx, since, perSourceCap)
	if err != nil {
		return nil, err
	}

	merged := make([]Activity, 0, len(enrollments)+len(tasks)+len(news))
	merged = append(merged, enrollments...)
	merged = append(merged, tasks...)
	merged = append(merged, news...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if len(merged) > mergedCap {
		merged = merged[:mergedCap]
	}
	return merged, nil
}

func (svc *service) GlobalAttendance(ctx context.Context, now time.Time) (GlobalAttendance, error) {
	records, err := svc.repo.AllAttendance(ctx)
	if err != nil {
		return GlobalAttendance{}, err
	}

	today := midnight(now)
	var todayRecords []attendance.Attendance
	for _, rec := range records {
		if rec.Session != nil && midnight(rec.Session.Date).Equal(today) {
			todayRecords = append(todayRecords, rec)
		}
	}
	sessionsToday, err := svc.repo.CountSessionsOn(ctx, today)
	if err != nil {
		return GlobalAttendance{}, err
	}

	todaySummary := attendance.Summarize(todayRecords)
	return GlobalAttendance{
		Overall: attendance.Summarize(records),
		Today: AttendanceToday{
			SessionsHeld:         sessionsToday,
			RecordsTaken:         todaySummary.TotalSessions,
			AttendancePercentage: todaySummary.AttendancePercentage,
		},
		WeeklyTrend: attendance.WeeklyTrend(records, now),
	}, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
