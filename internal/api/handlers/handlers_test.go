package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"jobreach-utils/internal/api/handlers"
	"jobreach-utils/internal/background"
	"jobreach-utils/internal/config"
	"jobreach-utils/internal/finder/workers"
	"jobreach-utils/pkg/models"
)

type stubTaskManager struct {
	submitted []string
	submitErr error
	results   map[string]*background.TaskResult
}

func (s *stubTaskManager) Start(ctx context.Context) error { return nil }
func (s *stubTaskManager) Stop(ctx context.Context) error  { return nil }

func (s *stubTaskManager) SubmitFindTask(ctx context.Context, processID string, request models.FindEmailRequest, poolManager *workers.PoolManager) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, processID)
	return nil
}

func (s *stubTaskManager) GetTaskResult(ctx context.Context, processID string) (*background.TaskResult, error) {
	if result, ok := s.results[processID]; ok {
		return result, nil
	}
	return nil, background.ErrTaskNotFound
}

func (s *stubTaskManager) GetTaskStatus(ctx context.Context, processID string) (background.TaskStatus, error) {
	result, err := s.GetTaskResult(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

func (s *stubTaskManager) ListTasks(ctx context.Context) ([]*background.TaskResult, error) {
	return nil, nil
}

func (s *stubTaskManager) IsHealthy() bool { return true }

func postJSON(t *testing.T, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if raw, ok := body.(string); ok {
		buf.WriteString(raw)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, echo.New().NewContext(req, rec)
}

func TestAsyncFindEmailHandler_Accepted(t *testing.T) {
	tm := &stubTaskManager{}
	rec, c := postJSON(t, models.FindEmailRequest{
		Job: models.JobRecord{CompanyName: "Acme Widgets", Title: "Go Engineer"},
	})

	if err := handlers.AsyncFindEmailHandler(tm, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var resp handlers.AsyncFindResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.ProcessID, "find_") {
		t.Errorf("ProcessID = %q, want find_ prefix", resp.ProcessID)
	}
	if resp.Status != string(background.TaskStatusAccepted) {
		t.Errorf("Status = %q, want ACCEPTED", resp.Status)
	}
	if len(tm.submitted) != 1 || tm.submitted[0] != resp.ProcessID {
		t.Errorf("submitted = %v, want [%s]", tm.submitted, resp.ProcessID)
	}
}

func TestAsyncFindEmailHandler_InvalidJSON(t *testing.T) {
	rec, c := postJSON(t, "{not json")

	if err := handlers.AsyncFindEmailHandler(&stubTaskManager{}, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAsyncFindEmailHandler_MissingCompany(t *testing.T) {
	tm := &stubTaskManager{}
	rec, c := postJSON(t, models.FindEmailRequest{
		Job: models.JobRecord{Title: "Go Engineer"},
	})

	if err := handlers.AsyncFindEmailHandler(tm, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(tm.submitted) != 0 {
		t.Errorf("task submitted despite invalid request: %v", tm.submitted)
	}
}

func TestAsyncFindEmailHandler_QueueFull(t *testing.T) {
	tm := &stubTaskManager{submitErr: fmt.Errorf("task queue is full")}
	rec, c := postJSON(t, models.FindEmailRequest{
		Job: models.JobRecord{CompanyName: "Acme Widgets"},
	})

	if err := handlers.AsyncFindEmailHandler(tm, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestTaskStatusHandler_Found(t *testing.T) {
	tm := &stubTaskManager{results: map[string]*background.TaskResult{
		"find_abc": {
			ProcessID: "find_abc",
			Type:      background.TaskTypeFindEmail,
			Status:    background.TaskStatusSuccess,
			CreatedAt: time.Now(),
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("processId")
	c.SetParamValues("find_abc")

	if err := handlers.TaskStatusHandler(tm)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result background.TaskResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Status != background.TaskStatusSuccess {
		t.Errorf("task status = %s, want SUCCESS", result.Status)
	}
}

func TestTaskStatusHandler_NotFound(t *testing.T) {
	tm := &stubTaskManager{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("processId")
	c.SetParamValues("find_missing")

	if err := handlers.TaskStatusHandler(tm)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFindEmailHandler_InvalidJSON(t *testing.T) {
	rec, c := postJSON(t, "{not json")

	if err := handlers.FindEmailHandler(nil, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFindEmailHandler_UnsupportedEngine(t *testing.T) {
	rec, c := postJSON(t, models.FindEmailRequest{
		Job:     models.JobRecord{CompanyName: "Acme Widgets"},
		Options: &models.FindOptions{Engine: "chromium"},
	})

	if err := handlers.FindEmailHandler(&config.Config{}, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an unknown engine", rec.Code)
	}
}

func TestFindEmailHandler_MissingCompany(t *testing.T) {
	rec, c := postJSON(t, models.FindEmailRequest{
		Job: models.JobRecord{Title: "Go Engineer"},
	})

	if err := handlers.FindEmailHandler(nil, nil)(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
