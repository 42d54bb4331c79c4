package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/noah-isme/sped-tracker-api/internal/models"
)

// fakeStore is an in-memory stand-in for the repositories. Every method takes
// the lock, which also serialises activations like the table lock does.
type fakeStore struct {
	mu        sync.Mutex
	seq       int
	students  map[string]*models.Student
	services  map[string]*models.Service
	instances []*models.ServiceInstance
	schedules map[string]*models.Schedule
	users     map[string]*models.User
	err       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		students:  map[string]*models.Student{},
		services:  map[string]*models.Service{},
		schedules: map[string]*models.Schedule{},
		users:     map[string]*models.User{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeStore) addService(studentID string, req int) *models.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc := &models.Service{ID: f.nextID("svc"), StudentID: &studentID, Subject: models.SubjectMath, ServiceType: models.ServiceTypePushIn, TotalTimeReq: req}
	f.services[svc.ID] = svc
	return svc
}

func (f *fakeStore) addSchedule(active bool) *models.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	sch := &models.Schedule{ID: f.nextID("sch"), Title: "Schedule", Active: active}
	f.schedules[sch.ID] = sch
	return sch
}

func (f *fakeStore) addInstance(serviceID, scheduleID string, day models.Weekday, start, end string) *models.ServiceInstance {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst := &models.ServiceInstance{ID: f.nextID("inst"), Day: day}
	if serviceID != "" {
		inst.ServiceID = &serviceID
	}
	if scheduleID != "" {
		inst.ScheduleID = &scheduleID
	}
	if start != "" {
		t, _ := models.ParseTimeOfDay(start)
		inst.TimeStart = &t
	}
	if end != "" {
		t, _ := models.ParseTimeOfDay(end)
		inst.TimeEnd = &t
	}
	f.instances = append(f.instances, inst)
	return inst
}

func (f *fakeStore) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.schedules {
		if s.Active {
			n++
		}
	}
	return n
}

// students

type fakeStudents struct{ *fakeStore }

func (f fakeStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []models.Student
	for _, s := range f.students {
		if filter.TeacherID != "" && s.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, len(out), nil
}

func (f fakeStudents) Count(ctx context.Context, teacherID string) (int, error) {
	list, _, err := f.List(ctx, models.StudentFilter{TeacherID: teacherID})
	return len(list), err
}

func (f fakeStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (f fakeStudents) Create(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	s.ID = f.nextID("stu")
	clone := *s
	f.students[s.ID] = &clone
	return nil
}

func (f fakeStudents) Update(ctx context.Context, s *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[s.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *s
	f.students[s.ID] = &clone
	return nil
}

func (f fakeStudents) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return sql.ErrNoRows
	}
	for _, svc := range f.services {
		if svc.StudentID != nil && *svc.StudentID == id {
			svc.StudentID = nil
		}
	}
	delete(f.students, id)
	return nil
}

// services

type fakeServices struct{ *fakeStore }

func (f fakeServices) List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Service
	for _, s := range f.services {
		if filter.StudentID != "" && (s.StudentID == nil || *s.StudentID != filter.StudentID) {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f fakeServices) ListByStudent(ctx context.Context, studentID string) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Service
	for _, s := range f.services {
		if s.StudentID != nil && *s.StudentID == studentID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeServices) FindByID(ctx context.Context, id string) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (f fakeServices) Create(ctx context.Context, s *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID("svc")
	clone := *s
	f.services[s.ID] = &clone
	return nil
}

func (f fakeServices) Update(ctx context.Context, s *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[s.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *s
	f.services[s.ID] = &clone
	return nil
}

func (f fakeServices) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[id]; !ok {
		return sql.ErrNoRows
	}
	for _, inst := range f.instances {
		if inst.ServiceID != nil && *inst.ServiceID == id {
			inst.ServiceID = nil
		}
	}
	delete(f.services, id)
	return nil
}

// instances

type fakeInstances struct{ *fakeStore }

func (f fakeInstances) ListScheduledByServiceIDs(ctx context.Context, ids []string) ([]models.ScheduledInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []models.ScheduledInstance
	for _, inst := range f.instances {
		if inst.ServiceID == nil || !wanted[*inst.ServiceID] {
			continue
		}
		si := models.ScheduledInstance{ServiceInstance: *inst}
		if inst.ScheduleID != nil {
			if sch, ok := f.schedules[*inst.ScheduleID]; ok {
				active := sch.Active
				si.ScheduleActive = &active
			}
		}
		out = append(out, si)
	}
	return out, nil
}

func (f fakeInstances) ListBySchedule(ctx context.Context, scheduleID string) ([]models.ServiceInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ServiceInstance
	for _, inst := range f.instances {
		if inst.ScheduleID != nil && *inst.ScheduleID == scheduleID {
			out = append(out, *inst)
		}
	}
	return out, nil
}

func (f fakeInstances) ListEntriesBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	instances, _ := f.ListBySchedule(ctx, scheduleID)
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ScheduleEntry, 0, len(instances))
	for _, inst := range instances {
		entry := models.ScheduleEntry{ServiceInstance: inst}
		if inst.ServiceID != nil {
			if svc, ok := f.services[*inst.ServiceID]; ok {
				subject, kind := svc.Subject, svc.ServiceType
				entry.Subject, entry.ServiceType = &subject, &kind
				if svc.StudentID != nil {
					if st, ok := f.students[*svc.StudentID]; ok {
						first, last := st.FirstName, st.LastName
						entry.StudentFirstName, entry.StudentLastName = &first, &last
					}
				}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f fakeInstances) FindByID(ctx context.Context, id string) (*models.ServiceInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range f.instances {
		if inst.ID == id {
			clone := *inst
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeInstances) Create(ctx context.Context, inst *models.ServiceInstance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	inst.ID = f.nextID("inst")
	clone := *inst
	f.instances = append(f.instances, &clone)
	return nil
}

func (f fakeInstances) Update(ctx context.Context, inst *models.ServiceInstance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.instances {
		if existing.ID == inst.ID {
			clone := *inst
			f.instances[i] = &clone
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeInstances) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inst := range f.instances {
		if inst.ID == id {
			f.instances = append(f.instances[:i], f.instances[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// schedules

type fakeSchedules struct{ *fakeStore }

func (f fakeSchedules) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Schedule
	for _, s := range f.schedules {
		if filter.TeacherID != "" && (s.TeacherID == nil || *s.TeacherID != filter.TeacherID) {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f fakeSchedules) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (f fakeSchedules) FindActive(ctx context.Context) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.schedules {
		if s.Active {
			clone := *s
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeSchedules) Create(ctx context.Context, s *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID("sch")
	s.Active = false
	clone := *s
	f.schedules[s.ID] = &clone
	return nil
}

func (f fakeSchedules) CreateActive(ctx context.Context, s *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID("sch")
	s.Active = true
	f.clearActiveLocked()
	clone := *s
	f.schedules[s.ID] = &clone
	return nil
}

func (f fakeSchedules) Update(ctx context.Context, s *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[s.ID]; !ok {
		return sql.ErrNoRows
	}
	clone := *s
	f.schedules[s.ID] = &clone
	return nil
}

func (f fakeSchedules) UpdateActive(ctx context.Context, s *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[s.ID]; !ok {
		return sql.ErrNoRows
	}
	f.clearActiveLocked()
	s.Active = true
	clone := *s
	f.schedules[s.ID] = &clone
	return nil
}

func (f fakeSchedules) SetActive(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	target, ok := f.schedules[id]
	if !ok {
		return sql.ErrNoRows
	}
	f.clearActiveLocked()
	target.Active = true
	return nil
}

func (f fakeSchedules) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[id]; !ok {
		return sql.ErrNoRows
	}
	for _, inst := range f.instances {
		if inst.ScheduleID != nil && *inst.ScheduleID == id {
			inst.ScheduleID = nil
		}
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeStore) clearActiveLocked() {
	for _, s := range f.schedules {
		s.Active = false
	}
}
