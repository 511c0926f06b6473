package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
	pkgerrors "acadtrack/backend/pkg/errors"
)

// mockRepos every mock repository plus the aggregate the services receive.
// The aggregate has no database handle, so BeginTx yields a nil tx.
type mockRepos struct {
	user        *mockUserRepo
	term        *mockTermRepo
	student     *mockStudentRepo
	course      *mockCourseRepo
	paper       *mockPaperRepo
	mark        *mockMarkRepo
	coPo        *mockCoPoRepo
	attendance  *mockAttendanceRepo
	timeSlot    *mockTimeSlotRepo
	schedule    *mockScheduleRepo
	policy      *mockPolicyRepo
	condonation *mockCondonationRepo
	activity    *mockActivityRepo

	repo *repository.Repository
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		user:        newMockUserRepo(),
		term:        newMockTermRepo(),
		student:     newMockStudentRepo(),
		course:      newMockCourseRepo(),
		paper:       newMockPaperRepo(),
		mark:        newMockMarkRepo(),
		coPo:        newMockCoPoRepo(),
		attendance:  newMockAttendanceRepo(),
		timeSlot:    newMockTimeSlotRepo(),
		schedule:    newMockScheduleRepo(),
		policy:      &mockPolicyRepo{},
		condonation: newMockCondonationRepo(),
		activity:    newMockActivityRepo(),
	}
	m.repo = &repository.Repository{
		User:           m.user,
		Term:           m.term,
		Student:        m.student,
		Course:         m.course,
		Paper:          m.paper,
		Mark:           m.mark,
		CoPo:           m.coPo,
		Attendance:     m.attendance,
		TimeSlot:       m.timeSlot,
		CourseSchedule: m.schedule,
		Policy:         m.policy,
		Condonation:    m.condonation,
		Activity:       m.activity,
	}
	return m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLoginID(_ context.Context, loginID string) (*model.User, error) {
	for _, u := range m.users {
		if u.LoginID == loginID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

// ── Mock AcademicTermRepository ──

type mockTermRepo struct {
	terms map[string]*model.AcademicTerm
	seq   int
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[string]*model.AcademicTerm)}
}

func (m *mockTermRepo) Create(_ context.Context, term *model.AcademicTerm) error {
	if term.TermID == "" {
		m.seq++
		term.TermID = fmt.Sprintf("term-%d", m.seq)
	}
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) GetByID(_ context.Context, id string) (*model.AcademicTerm, error) {
	if t, ok := m.terms[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) GetCurrent(_ context.Context) (*model.AcademicTerm, error) {
	for _, t := range m.terms {
		if t.IsActive {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) List(_ context.Context) ([]model.AcademicTerm, error) {
	var result []model.AcademicTerm
	for _, t := range m.terms {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTermRepo) Update(_ context.Context, term *model.AcademicTerm) error {
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.terms, id)
	return nil
}

func (m *mockTermRepo) ClearActive(_ context.Context) error {
	for _, t := range m.terms {
		t.IsActive = false
	}
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	m.students[s.StudentID] = s
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByIDs(_ context.Context, ids []string) ([]model.Student, error) {
	var result []model.Student
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) List(_ context.Context, f repository.StudentFilter, _, _ int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, s := range m.students {
		if f.Department != "" && s.Department != f.Department {
			continue
		}
		if f.Semester != 0 && s.Semester != f.Semester {
			continue
		}
		if f.Section != "" && s.Section != f.Section {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, int64(len(result)), nil
}

func (m *mockStudentRepo) ListRoster(_ context.Context, department string, semester int, section string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.Status != model.StudentStatusActive || s.Section != section {
			continue
		}
		if department != "" && s.Department != department {
			continue
		}
		if semester != 0 && s.Semester != semester {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	m.students[s.StudentID] = s
	return nil
}

func (m *mockStudentRepo) UpdateStatus(_ context.Context, id, status, _ string) error {
	s, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) BulkUpsert(_ context.Context, students []model.Student) error {
	for i := range students {
		s := students[i]
		m.students[s.StudentID] = &s
	}
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	seq     int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	if c.CourseID == "" {
		m.seq++
		c.CourseID = fmt.Sprintf("course-%d", m.seq)
	}
	m.courses[c.CourseID] = c
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) FindBySubjectSection(_ context.Context, year, subject, section string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.AcademicYear == year && c.SubjectCode == subject && c.Section == section {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) List(_ context.Context, f repository.CourseFilter, _, _ int) ([]model.Course, int64, error) {
	var result []model.Course
	for _, c := range m.courses {
		if f.AcademicYear != "" && c.AcademicYear != f.AcademicYear {
			continue
		}
		if f.SubjectCode != "" && c.SubjectCode != f.SubjectCode {
			continue
		}
		if f.Section != "" && c.Section != f.Section {
			continue
		}
		if f.InstructorID != "" && (c.InstructorID == nil || *c.InstructorID != f.InstructorID) {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, int64(len(result)), nil
}

func (m *mockCourseRepo) Update(_ context.Context, c *model.Course) error {
	m.courses[c.CourseID] = c
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) BulkUpsert(ctx context.Context, courses []model.Course) error {
	for i := range courses {
		c := courses[i]
		existing, _ := m.FindBySubjectSection(ctx, c.AcademicYear, c.SubjectCode, c.Section)
		for _, e := range existing {
			if e.Department == c.Department && e.Semester == c.Semester {
				c.CourseID = e.CourseID
			}
		}
		if err := m.Create(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock QuestionPaperRepository ──

// stores copies so the optimistic lock sees the stored version
type mockPaperRepo struct {
	papers map[string]model.QuestionPaper
	seq    int
}

func newMockPaperRepo() *mockPaperRepo {
	return &mockPaperRepo{papers: make(map[string]model.QuestionPaper)}
}

func (m *mockPaperRepo) Create(_ context.Context, p *model.QuestionPaper) error {
	if p.PaperID == "" {
		m.seq++
		p.PaperID = fmt.Sprintf("paper-%d", m.seq)
	}
	if p.Version == 0 {
		p.Version = 1
	}
	m.papers[p.PaperID] = *p
	return nil
}

func (m *mockPaperRepo) GetByID(_ context.Context, id string) (*model.QuestionPaper, error) {
	if p, ok := m.papers[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaperRepo) GetBySubjectExam(_ context.Context, subject, exam string) (*model.QuestionPaper, error) {
	for _, p := range m.papers {
		if p.SubjectCode == subject && p.ExamLabel == exam {
			p := p
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaperRepo) ListBySubject(_ context.Context, subject, status string) ([]model.QuestionPaper, error) {
	var result []model.QuestionPaper
	for _, p := range m.papers {
		if p.SubjectCode != subject || (status != "" && p.Status != status) {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ExamLabel < result[j].ExamLabel })
	return result, nil
}

func (m *mockPaperRepo) Update(_ context.Context, p *model.QuestionPaper) error {
	stored, ok := m.papers[p.PaperID]
	if !ok || stored.Version != p.Version {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version++
	m.papers[p.PaperID] = *p
	return nil
}

func (m *mockPaperRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.papers, id)
	return nil
}

// ── Mock MarkRepository ──

type mockMarkRepo struct {
	records map[string]model.MarkRecord
}

func newMockMarkRepo() *mockMarkRepo {
	return &mockMarkRepo{records: make(map[string]model.MarkRecord)}
}

func (m *mockMarkRepo) GetByID(_ context.Context, id string) (*model.MarkRecord, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMarkRepo) Upsert(_ context.Context, records []model.MarkRecord) error {
	for _, r := range records {
		m.records[r.RecordID] = r
	}
	return nil
}

func (m *mockMarkRepo) ListBySubject(_ context.Context, subject, exam string) ([]model.MarkRecord, error) {
	var result []model.MarkRecord
	for _, r := range m.records {
		if r.SubjectCode == subject && (exam == "" || r.ExamLabel == exam) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordID < result[j].RecordID })
	return result, nil
}

func (m *mockMarkRepo) ListByStudent(_ context.Context, studentID string) ([]model.MarkRecord, error) {
	var result []model.MarkRecord
	for _, r := range m.records {
		if r.StudentID == studentID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordID < result[j].RecordID })
	return result, nil
}

func (m *mockMarkRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// ── Mock CoPoRepository ──

type mockCoPoRepo struct {
	mappings map[string]*model.CoPoMapping
}

func newMockCoPoRepo() *mockCoPoRepo {
	return &mockCoPoRepo{mappings: make(map[string]*model.CoPoMapping)}
}

func (m *mockCoPoRepo) Get(_ context.Context, subject string) (*model.CoPoMapping, error) {
	if c, ok := m.mappings[subject]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoPoRepo) Upsert(_ context.Context, c *model.CoPoMapping) error {
	m.mappings[c.SubjectCode] = c
	return nil
}

func (m *mockCoPoRepo) Delete(_ context.Context, subject string) error {
	if _, ok := m.mappings[subject]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.mappings, subject)
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	sessions map[string]model.ClassSession
	records  map[string]model.AttendanceRecord
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{
		sessions: make(map[string]model.ClassSession),
		records:  make(map[string]model.AttendanceRecord),
	}
}

func (m *mockAttendanceRepo) GetSession(_ context.Context, id string) (*model.ClassSession, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListSessions(_ context.Context, subject, section string, from, to *time.Time) ([]model.ClassSession, error) {
	var result []model.ClassSession
	for _, s := range m.sessions {
		if s.SubjectCode != subject || (section != "" && s.Section != section) {
			continue
		}
		if from != nil && s.Date.Before(*from) {
			continue
		}
		if to != nil && s.Date.After(*to) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SessionID < result[j].SessionID })
	return result, nil
}

func (m *mockAttendanceRepo) SaveSession(_ context.Context, s *model.ClassSession) error {
	m.sessions[s.SessionID] = *s
	return nil
}

func (m *mockAttendanceRepo) UpsertRecords(_ context.Context, records []model.AttendanceRecord) error {
	for _, r := range records {
		m.records[r.RecordID] = r
	}
	return nil
}

func (m *mockAttendanceRepo) DeleteSessionRecordsExcept(_ context.Context, sessionID string, keep []string) error {
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	for id, r := range m.records {
		if r.SessionID == sessionID && !kept[id] {
			delete(m.records, id)
		}
	}
	return nil
}

func (m *mockAttendanceRepo) ListRecordsBySession(_ context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.SessionID == sessionID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockAttendanceRepo) tally(match func(model.AttendanceRecord) bool) []model.AttendanceTally {
	idx := make(map[string]*model.AttendanceTally)
	for _, r := range m.records {
		if !match(r) {
			continue
		}
		key := r.StudentID + "|" + r.SubjectCode
		t, ok := idx[key]
		if !ok {
			t = &model.AttendanceTally{StudentID: r.StudentID, SubjectCode: r.SubjectCode}
			idx[key] = t
		}
		t.Total++
		if r.Status == model.AttendancePresent {
			t.Attended++
		}
	}
	result := make([]model.AttendanceTally, 0, len(idx))
	for _, t := range idx {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StudentID != result[j].StudentID {
			return result[i].StudentID < result[j].StudentID
		}
		return result[i].SubjectCode < result[j].SubjectCode
	})
	return result
}

func (m *mockAttendanceRepo) TallyByStudent(_ context.Context, studentID string) ([]model.AttendanceTally, error) {
	return m.tally(func(r model.AttendanceRecord) bool { return r.StudentID == studentID }), nil
}

func (m *mockAttendanceRepo) TallyBySubject(_ context.Context, subject, section string) ([]model.AttendanceTally, error) {
	return m.tally(func(r model.AttendanceRecord) bool {
		return r.SubjectCode == subject && (section == "" || r.Section == section)
	}), nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	slots map[string]*model.TimeSlot
}

func newMockTimeSlotRepo() *mockTimeSlotRepo {
	return &mockTimeSlotRepo{slots: make(map[string]*model.TimeSlot)}
}

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if slot.TimeSlotID == "" {
		slot.TimeSlotID = "ts-" + slot.Code
	}
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) GetByCode(_ context.Context, code string) (*model.TimeSlot, error) {
	for _, s := range m.slots {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) List(_ context.Context, activeOnly bool) ([]model.TimeSlot, error) {
	var result []model.TimeSlot
	for _, s := range m.slots {
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (m *mockTimeSlotRepo) Update(_ context.Context, slot *model.TimeSlot) error {
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.slots, id)
	return nil
}

// ── Mock CourseScheduleRepository ──

type mockScheduleRepo struct {
	rows []model.CourseSchedule
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{}
}

func (m *mockScheduleRepo) ListByUserAndTerm(_ context.Context, userID, termID string) ([]model.CourseSchedule, error) {
	var result []model.CourseSchedule
	for _, r := range m.rows {
		if r.UserID == userID && r.TermID == termID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ListByTerm(_ context.Context, termID string) ([]model.CourseSchedule, error) {
	var result []model.CourseSchedule
	for _, r := range m.rows {
		if r.TermID == termID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ReplaceByUserAndTerm(_ context.Context, userID, termID string, rows []model.CourseSchedule) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.UserID != userID || r.TermID != termID {
			kept = append(kept, r)
		}
	}
	for i, r := range rows {
		r.CourseScheduleID = fmt.Sprintf("cs-%s-%d", userID, i+1)
		kept = append(kept, r)
	}
	m.rows = kept
	return nil
}

// ── Mock AcademicPolicyRepository ──

type mockPolicyRepo struct {
	policy *model.AcademicPolicy
}

func (m *mockPolicyRepo) Get(_ context.Context) (*model.AcademicPolicy, error) {
	if m.policy == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p := *m.policy
	return &p, nil
}

func (m *mockPolicyRepo) Update(_ context.Context, p *model.AcademicPolicy) error {
	cp := *p
	m.policy = &cp
	return nil
}

func (m *mockPolicyRepo) EnsureDefault(_ context.Context, p *model.AcademicPolicy) error {
	if m.policy == nil {
		cp := *p
		m.policy = &cp
	}
	return nil
}

// ── Mock CondonationRepository ──

type mockCondonationRepo struct {
	requests map[string]*model.CondonationRequest
	seq      int
}

func newMockCondonationRepo() *mockCondonationRepo {
	return &mockCondonationRepo{requests: make(map[string]*model.CondonationRequest)}
}

func (m *mockCondonationRepo) Create(_ context.Context, req *model.CondonationRequest) error {
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("cond-%d", m.seq)
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockCondonationRepo) GetByID(_ context.Context, id string) (*model.CondonationRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCondonationRepo) ListByStudent(_ context.Context, studentID string) ([]model.CondonationRequest, error) {
	var result []model.CondonationRequest
	for _, r := range m.requests {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result, nil
}

func (m *mockCondonationRepo) List(_ context.Context, status string, _, _ int) ([]model.CondonationRequest, int64, error) {
	var result []model.CondonationRequest
	for _, r := range m.requests {
		if status == "" || r.Status == status {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID < result[j].RequestID })
	return result, int64(len(result)), nil
}

func (m *mockCondonationRepo) HasPending(_ context.Context, studentID, subject string) (bool, error) {
	for _, r := range m.requests {
		if r.StudentID == studentID && r.SubjectCode == subject && r.Status == model.ReviewPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCondonationRepo) Update(_ context.Context, req *model.CondonationRequest) error {
	m.requests[req.RequestID] = req
	return nil
}

// ── Mock ActivityPointRepository ──

type mockActivityRepo struct {
	claims map[string]*model.ActivityPoint
	seq    int
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{claims: make(map[string]*model.ActivityPoint)}
}

func (m *mockActivityRepo) Create(_ context.Context, ap *model.ActivityPoint) error {
	if ap.ActivityID == "" {
		m.seq++
		ap.ActivityID = fmt.Sprintf("act-%d", m.seq)
	}
	m.claims[ap.ActivityID] = ap
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (*model.ActivityPoint, error) {
	if a, ok := m.claims[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) ListByStudent(_ context.Context, studentID string) ([]model.ActivityPoint, error) {
	var result []model.ActivityPoint
	for _, a := range m.claims {
		if a.StudentID == studentID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ActivityID < result[j].ActivityID })
	return result, nil
}

func (m *mockActivityRepo) List(_ context.Context, status string, _, _ int) ([]model.ActivityPoint, int64, error) {
	var result []model.ActivityPoint
	for _, a := range m.claims {
		if status == "" || a.Status == status {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ActivityID < result[j].ActivityID })
	return result, int64(len(result)), nil
}

func (m *mockActivityRepo) Update(_ context.Context, ap *model.ActivityPoint) error {
	m.claims[ap.ActivityID] = ap
	return nil
}

func (m *mockActivityRepo) SumApproved(_ context.Context, studentID string) (int, error) {
	total := 0
	for _, a := range m.claims {
		if a.StudentID == studentID && a.Status == model.ReviewApproved {
			total += a.Points
		}
	}
	return total, nil
}

// ── fixtures ──

func seedActiveTerm(m *mockRepos) *model.AcademicTerm {
	term := &model.AcademicTerm{
		TermID:       "term-active",
		Name:         "2025-26 ODD",
		AcademicYear: "2025-26",
		StartDate:    time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
		Status:       model.TermStatusActive,
	}
	m.term.terms[term.TermID] = term
	return term
}

func seedStudent(m *mockRepos, id, section string) *model.Student {
	s := &model.Student{
		StudentID:  id,
		Name:       "Student " + id,
		Department: "CSE",
		Semester:   5,
		Section:    section,
		Status:     model.StudentStatusActive,
	}
	m.student.students[id] = s
	return s
}

func seedTimeSlot(m *mockRepos, code string) *model.TimeSlot {
	ts := &model.TimeSlot{
		TimeSlotID: "ts-" + code,
		Code:       code,
		Name:       "Period " + code,
		StartTime:  "09:00",
		EndTime:    "10:00",
		IsActive:   true,
	}
	m.timeSlot.slots[ts.TimeSlotID] = ts
	return ts
}
