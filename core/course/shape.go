package course

// Response shapes. Display labels travel alongside raw codes so clients
// never hardcode the Spanish wording.

type (
	CourseSummary struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		Code            string `json:"code"`
		Description     string `json:"description"`
		Level           string `json:"level"`
		LevelDisplay    string `json:"level_display"`
		Modality        string `json:"modality"`
		ModalityDisplay string `json:"modality_display"`
		DurationWeeks   int    `json:"duration_weeks"`
		HoursPerWeek    int    `json:"hours_per_week"`
	}

	PeriodSummary struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}

	GroupSummary struct {
		ID          int            `json:"id"`
		Name        string         `json:"name"`
		MaxStudents int            `json:"max_students"`
		Course      *CourseSummary `json:"course,omitempty"`
		Period      *PeriodSummary `json:"period,omitempty"`
		Teacher     *TeacherInfo   `json:"teacher,omitempty"`
	}

	ScheduleDetail struct {
		ID        int        `json:"id"`
		DayOfWeek int        `json:"day_of_week"`
		DayName   string     `json:"day_name"`
		StartTime string     `json:"start_time"`
		EndTime   string     `json:"end_time"`
		Subject   string     `json:"subject,omitempty"`
		Classroom *Classroom `json:"classroom,omitempty"`
	}

	GradeDetail struct {
		ID               int     `json:"id"`
		GradeType        string  `json:"grade_type"`
		GradeTypeDisplay string  `json:"grade_type_display"`
		Subject          string  `json:"subject"`
		ObtainedScore    float64 `json:"obtained_score"`
		MaxScore         float64 `json:"max_score"`
		Percentage       float64 `json:"percentage"`
		Date             string  `json:"date"`
		Comments         string  `json:"comments,omitempty"`
	}

	EnrollmentDetail struct {
		ID             int           `json:"id"`
		EnrollmentDate string        `json:"enrollment_date"`
		IsActive       bool          `json:"is_active"`
		Group          *GroupSummary `json:"course_group,omitempty"`
	}

	// EnrollmentList is the student enrollments payload when the student has
	// no active enrollments: an empty list plus a message explaining why.
	EnrollmentList struct {
		Message     string             `json:"message"`
		Enrollments []EnrollmentDetail `json:"enrollments"`
	}

	CourseDetailResponse struct {
		Group      GroupSummary     `json:"course_group"`
		Enrollment EnrollmentDetail `json:"enrollment"`
		Schedules  []ScheduleDetail `json:"schedules"`
		Grades     []GradeDetail    `json:"grades"`
	}
)

const noEnrollmentsMessage = "No tienes cursos matriculados actualmente"

const dateLayout = "2006-01-02"

func ShapeCourse(c Course) CourseSummary {
	return CourseSummary{
		ID:              c.ID,
		Name:            c.Name,
		Code:            c.Code,
		Description:     c.Description,
		Level:           c.Level,
		LevelDisplay:    LevelLabel(c.Level),
		Modality:        c.Modality,
		ModalityDisplay: ModalityLabel(c.Modality),
		DurationWeeks:   c.DurationWeeks,
		HoursPerWeek:    c.HoursPerWeek,
	}
}

func ShapePeriod(p Period) PeriodSummary {
	return PeriodSummary{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate.Format(dateLayout),
		EndDate:   p.EndDate.Format(dateLayout),
	}
}

func ShapeGroup(g Group) GroupSummary {
	gs := GroupSummary{
		ID:          g.ID,
		Name:        g.Name,
		MaxStudents: g.MaxStudents,
		Teacher:     g.Teacher,
	}
	if g.Course != nil {
		c := ShapeCourse(*g.Course)
		gs.Course = &c
	}
	if g.Period != nil {
		p := ShapePeriod(*g.Period)
		gs.Period = &p
	}
	return gs
}

func ShapeGroups(groups []Group) []GroupSummary {
	out := make([]GroupSummary, len(groups))
	for i, g := range groups {
		out[i] = ShapeGroup(g)
	}
	return out
}

func ShapeSchedule(s Schedule) ScheduleDetail {
	return ScheduleDetail{
		ID:        s.ID,
		DayOfWeek: s.DayOfWeek,
		DayName:   DayName(s.DayOfWeek),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Subject:   s.Subject,
		Classroom: s.Classroom,
	}
}

func ShapeSchedules(schedules []Schedule) []ScheduleDetail {
	out := make([]ScheduleDetail, len(schedules))
	for i, s := range schedules {
		out[i] = ShapeSchedule(s)
	}
	return out
}

func ShapeGrade(g Grade) GradeDetail {
	return GradeDetail{
		ID:               g.ID,
		GradeType:        g.GradeType,
		GradeTypeDisplay: GradeTypeLabel(g.GradeType),
		Subject:          g.Subject,
		ObtainedScore:    g.ObtainedScore,
		MaxScore:         g.MaxScore,
		Percentage:       g.Percent(),
		Date:             g.Date.Format(dateLayout),
		Comments:         g.Comments,
	}
}

func ShapeGrades(grades []Grade) []GradeDetail {
	out := make([]GradeDetail, len(grades))
	for i, g := range grades {
		out[i] = ShapeGrade(g)
	}
	return out
}

func ShapeEnrollment(e Enrollment) EnrollmentDetail {
	ed := EnrollmentDetail{
		ID:             e.ID,
		EnrollmentDate: e.EnrollmentDate.Format(dateLayout),
		IsActive:       e.IsActive,
	}
	if e.Group != nil {
		g := ShapeGroup(*e.Group)
		ed.Group = &g
	}
	return ed
}

// ShapeEnrollments builds the student enrollments payload: a bare array of
// enrollment details, or an EnrollmentList carrying an explanatory message
// when the student has none.
func ShapeEnrollments(enrollments []Enrollment) interface{} {
	if len(enrollments) == 0 {
		return EnrollmentList{
			Message:     noEnrollmentsMessage,
			Enrollments: []EnrollmentDetail{},
		}
	}
	out := make([]EnrollmentDetail, len(enrollments))
	for i, e := range enrollments {
		out[i] = ShapeEnrollment(e)
	}
	return out
}

func ShapeDetail(d Detail) CourseDetailResponse {
	return CourseDetailResponse{
		Group:      ShapeGroup(d.Group),
		Enrollment: ShapeEnrollment(d.Enrollment),
		Schedules:  ShapeSchedules(d.Schedules),
		Grades:     ShapeGrades(d.Grades),
	}
}
