package services

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// memoryRepository is an in-memory Repository used by the service tests.
type memoryRepository struct {
	mu          sync.Mutex
	users       map[string]*models.User
	classes     map[string]*models.Class
	students    map[string]*models.Student
	attendance  map[string]*models.AttendanceRecord
	permissions map[string]*models.PermissionRequest
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users:       make(map[string]*models.User),
		classes:     make(map[string]*models.Class),
		students:    make(map[string]*models.Student),
		attendance:  make(map[string]*models.AttendanceRecord),
		permissions: make(map[string]*models.PermissionRequest),
	}
}

func (m *memoryRepository) User() repositories.UserRepository             { return &memoryUserRepo{m} }
func (m *memoryRepository) Class() repositories.ClassRepository           { return &memoryClassRepo{m} }
func (m *memoryRepository) Student() repositories.StudentRepository       { return &memoryStudentRepo{m} }
func (m *memoryRepository) Attendance() repositories.AttendanceRepository { return &memoryAttendanceRepo{m} }
func (m *memoryRepository) Permission() repositories.PermissionRepository { return &memoryPermissionRepo{m} }
func (m *memoryRepository) Dashboard() repositories.DashboardRepository   { return &memoryDashboardRepo{m} }
func (m *memoryRepository) Snapshot() repositories.SnapshotRepository     { return &memorySnapshotRepo{m} }

func (m *memoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memoryRepository) Ping(ctx context.Context) error { return nil }
func (m *memoryRepository) Close() error                   { return nil }

// ===== USER =====

type memoryUserRepo struct{ m *memoryRepository }

func (r *memoryUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, user := range r.m.users {
		copied := *user
		out = append(out, &copied)
	}
	sortByID(out, func(u *models.User) string { return u.ID })
	return out, int64(len(out)), nil
}

func (r *memoryUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

// ===== CLASS =====

type memoryClassRepo struct{ m *memoryRepository }

func (r *memoryClassRepo) Create(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	copied := *class
	r.m.classes[class.ID] = &copied
	return nil
}

func (r *memoryClassRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Class, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	class, ok := r.m.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *class
	return &copied, nil
}

func (r *memoryClassRepo) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.classes[id]
	return ok, nil
}

func (r *memoryClassRepo) Update(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.classes[class.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *class
	r.m.classes[class.ID] = &copied
	return nil
}

func (r *memoryClassRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ClassFilters) ([]*models.Class, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Class
	for _, class := range r.m.classes {
		if filters.IsActive != nil && class.IsActive != *filters.IsActive {
			continue
		}
		copied := *class
		out = append(out, &copied)
	}
	sortByID(out, func(c *models.Class) string { return c.ID })
	return out, int64(len(out)), nil
}

// ===== STUDENT =====

type memoryStudentRepo struct{ m *memoryRepository }

func (r *memoryStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	copied := *student
	r.m.students[student.ID] = &copied
	return nil
}

func (r *memoryStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	student, ok := r.m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *student
	return &copied, nil
}

func (r *memoryStudentRepo) Exists(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.students[id]
	return ok, nil
}

func (r *memoryStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *student
	r.m.students[student.ID] = &copied
	return nil
}

func (r *memoryStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Student
	for _, student := range r.m.students {
		if filters.ClassID != "" && student.ClassID != filters.ClassID {
			continue
		}
		if !filters.IncludeArchived && student.IsArchived {
			continue
		}
		copied := *student
		out = append(out, &copied)
	}
	sortByID(out, func(s *models.Student) string { return s.ID })
	return out, int64(len(out)), nil
}

func (r *memoryStudentRepo) GetRoster(ctx context.Context, tx *gorm.DB, classID string) ([]*models.Student, error) {
	students, _, err := r.List(ctx, tx, repositories.StudentFilters{ClassID: classID})
	return students, err
}

// ===== ATTENDANCE =====

type memoryAttendanceRepo struct{ m *memoryRepository }

func (r *memoryAttendanceRepo) Create(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	copied := *record
	r.m.attendance[record.ID] = &copied
	return nil
}

func (r *memoryAttendanceRepo) CreateBatch(ctx context.Context, tx *gorm.DB, records []*models.AttendanceRecord) error {
	for _, record := range records {
		if err := r.Create(ctx, tx, record); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryAttendanceRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.AttendanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	record, ok := r.m.attendance[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memoryAttendanceRepo) GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID, date string) (*models.AttendanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, record := range r.m.attendance {
		if record.StudentID == studentID && record.Date == date {
			copied := *record
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryAttendanceRepo) Update(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.attendance[record.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *record
	r.m.attendance[record.ID] = &copied
	return nil
}

func (r *memoryAttendanceRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.AttendanceRecord
	for _, record := range r.m.attendance {
		if filters.ClassID != "" && record.ClassID != filters.ClassID {
			continue
		}
		if filters.StudentID != "" && record.StudentID != filters.StudentID {
			continue
		}
		if filters.Status != nil && record.Status != *filters.Status {
			continue
		}
		if filters.DateFrom != "" && record.Date < filters.DateFrom {
			continue
		}
		if filters.DateTo != "" && record.Date > filters.DateTo {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	sortByID(out, func(rec *models.AttendanceRecord) string { return rec.ID })
	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *memoryAttendanceRepo) ExistsForClassDate(ctx context.Context, tx *gorm.DB, classID, date string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, record := range r.m.attendance {
		if record.ClassID == classID && record.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// ===== PERMISSION =====

type memoryPermissionRepo struct{ m *memoryRepository }

func (r *memoryPermissionRepo) Create(ctx context.Context, tx *gorm.DB, req *models.PermissionRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	copied := *req
	r.m.permissions[req.ID] = &copied
	return nil
}

func (r *memoryPermissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.PermissionRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req, ok := r.m.permissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *memoryPermissionRepo) Update(ctx context.Context, tx *gorm.DB, req *models.PermissionRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.permissions[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *req
	r.m.permissions[req.ID] = &copied
	return nil
}

func (r *memoryPermissionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.PermissionFilters) ([]*models.PermissionRequest, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.PermissionRequest
	for _, req := range r.m.permissions {
		if filters.StudentID != "" && req.StudentID != filters.StudentID {
			continue
		}
		if filters.ClassID != "" && req.ClassID != filters.ClassID {
			continue
		}
		if filters.Status != nil && req.Status != *filters.Status {
			continue
		}
		copied := *req
		out = append(out, &copied)
	}
	sortByID(out, func(p *models.PermissionRequest) string { return p.ID })
	return out, int64(len(out)), nil
}

// ===== DASHBOARD =====

type memoryDashboardRepo struct{ m *memoryRepository }

func (r *memoryDashboardRepo) GetTeacherOverview(ctx context.Context, tx *gorm.DB, today string) (*repositories.TeacherOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	overview := &repositories.TeacherOverview{}
	for _, class := range r.m.classes {
		overview.TotalClasses++
		if class.IsActive {
			overview.ActiveClasses++
		}
	}
	for _, student := range r.m.students {
		if student.IsArchived {
			overview.ArchivedStudents++
		} else {
			overview.ActiveStudents++
		}
	}
	for _, req := range r.m.permissions {
		if req.Status == models.PermissionPending {
			overview.PendingPermissions++
		}
	}
	for _, record := range r.m.attendance {
		if record.Date != today {
			continue
		}
		switch record.Status {
		case models.StatusPresent:
			overview.TodayPresent++
		case models.StatusAbsent:
			overview.TodayAbsent++
		case models.StatusPermission:
			overview.TodayPermission++
		}
	}
	return overview, nil
}

func (r *memoryDashboardRepo) GetClassStats(ctx context.Context, tx *gorm.DB, classID, dateFrom, dateTo string) (*repositories.ClassAttendanceStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stats := &repositories.ClassAttendanceStats{}
	for _, record := range r.m.attendance {
		if record.ClassID != classID {
			continue
		}
		if dateFrom != "" && record.Date < dateFrom {
			continue
		}
		if dateTo != "" && record.Date > dateTo {
			continue
		}
		stats.TotalRecords++
		switch record.Status {
		case models.StatusPresent:
			stats.PresentCount++
		case models.StatusAbsent:
			stats.AbsentCount++
		case models.StatusPermission:
			stats.PermissionCount++
		}
	}
	if stats.TotalRecords > 0 {
		stats.AttendanceRate = float64(stats.PresentCount) / float64(stats.TotalRecords) * 100
	}
	return stats, nil
}

func (r *memoryDashboardRepo) GetStudentStats(ctx context.Context, tx *gorm.DB, studentID string) (*repositories.StudentAttendanceStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stats := &repositories.StudentAttendanceStats{}
	for _, record := range r.m.attendance {
		if record.StudentID != studentID {
			continue
		}
		stats.TotalRecords++
		switch record.Status {
		case models.StatusPresent:
			stats.PresentCount++
		case models.StatusAbsent:
			stats.AbsentCount++
		case models.StatusPermission:
			stats.PermissionCount++
		}
	}
	if stats.TotalRecords > 0 {
		stats.AttendanceRate = float64(stats.PresentCount) / float64(stats.TotalRecords) * 100
	}
	return stats, nil
}

// ===== SNAPSHOT =====

type memorySnapshotRepo struct{ m *memoryRepository }

func (r *memorySnapshotRepo) Export(ctx context.Context, tx *gorm.DB) (*models.Snapshot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	snapshot := &models.Snapshot{Version: models.SnapshotVersion}
	for _, u := range r.m.users {
		snapshot.Users = append(snapshot.Users, *u)
	}
	for _, c := range r.m.classes {
		snapshot.Classes = append(snapshot.Classes, *c)
	}
	for _, s := range r.m.students {
		snapshot.Students = append(snapshot.Students, *s)
	}
	for _, a := range r.m.attendance {
		snapshot.Attendance = append(snapshot.Attendance, *a)
	}
	for _, p := range r.m.permissions {
		snapshot.Permissions = append(snapshot.Permissions, *p)
	}
	sort.Slice(snapshot.Users, func(i, j int) bool { return snapshot.Users[i].ID < snapshot.Users[j].ID })
	sort.Slice(snapshot.Classes, func(i, j int) bool { return snapshot.Classes[i].ID < snapshot.Classes[j].ID })
	sort.Slice(snapshot.Students, func(i, j int) bool { return snapshot.Students[i].ID < snapshot.Students[j].ID })
	sort.Slice(snapshot.Attendance, func(i, j int) bool { return snapshot.Attendance[i].ID < snapshot.Attendance[j].ID })
	sort.Slice(snapshot.Permissions, func(i, j int) bool { return snapshot.Permissions[i].ID < snapshot.Permissions[j].ID })
	return snapshot, nil
}

func (r *memorySnapshotRepo) Import(ctx context.Context, tx *gorm.DB, snapshot *models.Snapshot) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.users = make(map[string]*models.User)
	r.m.classes = make(map[string]*models.Class)
	r.m.students = make(map[string]*models.Student)
	r.m.attendance = make(map[string]*models.AttendanceRecord)
	r.m.permissions = make(map[string]*models.PermissionRequest)

	for i := range snapshot.Users {
		u := snapshot.Users[i]
		r.m.users[u.ID] = &u
	}
	for i := range snapshot.Classes {
		c := snapshot.Classes[i]
		r.m.classes[c.ID] = &c
	}
	for i := range snapshot.Students {
		s := snapshot.Students[i]
		r.m.students[s.ID] = &s
	}
	for i := range snapshot.Attendance {
		a := snapshot.Attendance[i]
		r.m.attendance[a.ID] = &a
	}
	for i := range snapshot.Permissions {
		p := snapshot.Permissions[i]
		r.m.permissions[p.ID] = &p
	}
	return nil
}

// sortByID keeps list results deterministic across map iteration order.
func sortByID[T any](items []T, key func(T) string) {
	sort.Slice(items, func(i, j int) bool { return key(items[i]) < key(items[j]) })
}
