package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/attendance"
	"github.com/JOSEPHMATHEO/Fine-Tune-English/core/dashboard"
)

type dashboardRepository struct {
	db *sqlx.DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db *sqlx.DB) *dashboardRepository {
	return &dashboardRepository{db: db}
}

func (repo dashboardRepository) count(ctx context.Context, q string, args ...interface{}) (int, error) {
	var n int
	if err := repo.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "counting")
	}
	return n, nil
}

func (repo dashboardRepository) CountActiveUsersByRole(ctx context.Context, role string) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM app_user WHERE rol = $1 AND is_active`, role)
}

func (repo dashboardRepository) CountActiveCourses(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM course WHERE is_active`)
}

func (repo dashboardRepository) CountActiveEnrollments(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM enrollment WHERE is_active`)
}

func (repo dashboardRepository) CountPublishedNews(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM news WHERE is_published`)
}

func (repo dashboardRepository) CountActiveTasks(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM task WHERE is_active`)
}

type activityRow struct {
	Description string    `db:"description"`
	Timestamp   time.Time `db:"timestamp"`
}

func (repo dashboardRepository) recent(ctx context.Context, typ, q string, since time.Time, limit int) ([]dashboard.Activity, error) {
	var rows []activityRow
	if err := repo.db.SelectContext(ctx, &rows, q, since, limit); err != nil {
		return nil, errors.Wrapf(err, "querying recent %s activity", typ)
	}
	activities := make([]dashboard.Activity, len(rows))
	for i, row := range rows {
		activities[i] = dashboard.Activity{
			Type:        typ,
			Description: row.Description,
			Timestamp:   row.Timestamp,
		}
	}
	return activities, nil
}

func (repo dashboardRepository) RecentEnrollments(ctx context.Context, since time.Time, limit int) ([]dashboard.Activity, error) {
	return repo.recent(ctx, dashboard.ActivityEnrollment, `
		SELECT u.nombre_completo || ' se matriculó en ' || c.name AS description,
		       e.enrollment_date AS timestamp
		FROM enrollment e
		JOIN student_profile sp ON sp.id = e.student_id
		JOIN app_user u ON u.id = sp.user_id
		JOIN course_group g ON g.id = e.group_id
		JOIN course c ON c.id = g.course_id
		WHERE e.enrollment_date >= $1
		ORDER BY e.enrollment_date DESC
		LIMIT $2`, since, limit)
}

func (repo dashboardRepository) RecentTasks(ctx context.Context, since time.Time, limit int) ([]dashboard.Activity, error) {
	return repo.recent(ctx, dashboard.ActivityTask, `
		SELECT 'Nueva tarea: ' || t.title AS description,
		       t.created_at AS timestamp
		FROM task t
		WHERE t.created_at >= $1
		ORDER BY t.created_at DESC
		LIMIT $2`, since, limit)
}

func (repo dashboardRepository) RecentNews(ctx context.Context, since time.Time, limit int) ([]dashboard.Activity, error) {
	return repo.recent(ctx, dashboard.ActivityNews, `
		SELECT 'Noticia publicada: ' || n.title AS description,
		       n.published_at AS timestamp
		FROM news n
		WHERE n.is_published AND n.published_at >= $1
		ORDER BY n.published_at DESC
		LIMIT $2`, since, limit)
}

func (repo dashboardRepository) AllAttendance(ctx context.Context) ([]attendance.Attendance, error) {
	type row struct {
		ID           int       `db:"id"`
		SessionID    int       `db:"session_id"`
		EnrollmentID int       `db:"enrollment_id"`
		Status       string    `db:"status"`
		SessionDate  time.Time `db:"session_date"`
	}
	var rows []row
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT a.id, a.session_id, a.enrollment_id, a.status, cs.date AS session_date
		FROM attendance a
		JOIN class_session cs ON cs.id = a.session_id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying all attendance")
	}
	records := make([]attendance.Attendance, len(rows))
	for i, r := range rows {
		records[i] = attendance.Attendance{
			ID:           r.ID,
			SessionID:    r.SessionID,
			EnrollmentID: r.EnrollmentID,
			Status:       r.Status,
			Session:      &attendance.Session{ID: r.SessionID, Date: r.SessionDate},
		}
	}
	return records, nil
}

func (repo dashboardRepository) CountSessionsOn(ctx context.Context, day time.Time) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM class_session WHERE date = $1`, day.Format("2006-01-02"))
}
