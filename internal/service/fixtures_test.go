package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/internal/repository"
	"github.com/noah-isme/rbc-sheets-api/pkg/config"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

var testNow = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

var testWorksheets = config.WorksheetNames{
	Students:     "Students",
	Courses:      "Courses",
	Fees:         "Fees",
	Attendance:   "Attendance",
	Notices:      "Notices",
	Certificates: "Certificates",
	Admins:       "Admins",
}

func newTestClient(t *testing.T, initialise bool) *sheets.Client {
	t.Helper()
	seq := 0
	client := sheets.NewClient(
		sheets.NewMemoryBackend("sheet-1", "RB Computer"),
		sheets.DefaultSchema(testWorksheets),
		sheets.WithClock(func() time.Time { return testNow }),
		sheets.WithIDGenerator(func(time.Time) string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	if initialise {
		for _, ws := range client.Schema().Titles() {
			_, err := client.InitializeWorksheet(context.Background(), ws)
			require.NoError(t, err)
		}
	}
	return client
}

type recordingInvalidator struct {
	patterns []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, pattern string) error {
	r.patterns = append(r.patterns, pattern)
	return nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func newTestStudents(t *testing.T, client *sheets.Client, cache cacheInvalidator) *StudentService {
	t.Helper()
	svc := NewStudentService(repository.NewWorksheetRepository(client, testWorksheets.Students), cache, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func newTestCourses(t *testing.T, client *sheets.Client, cache cacheInvalidator) *CourseService {
	t.Helper()
	svc := NewCourseService(repository.NewWorksheetRepository(client, testWorksheets.Courses), cache, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func newTestFees(t *testing.T, client *sheets.Client, cache cacheInvalidator) *FeeService {
	t.Helper()
	svc := NewFeeService(repository.NewWorksheetRepository(client, testWorksheets.Fees), cache, nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}
