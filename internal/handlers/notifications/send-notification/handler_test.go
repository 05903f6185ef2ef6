// internal/handlers/notifications/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/fanout"
	"station-dashboard/internal/models"
	"station-dashboard/internal/repository"
	"station-dashboard/internal/segmentation"
)

// ==========================
// Mocks
// ==========================

type MockResolver struct {
	recipients []string
	err        error
	spec       *segmentation.TargetingSpec
}

func (m *MockResolver) Resolve(ctx context.Context, spec segmentation.TargetingSpec) ([]string, error) {
	m.spec = &spec
	return m.recipients, m.err
}

type MockDispatcher struct {
	err        error
	recipients []string
	calls      int
}

func (m *MockDispatcher) Dispatch(ctx context.Context, recipients []string, title, message string) (*fanout.Result, error) {
	m.calls++
	m.recipients = recipients
	if m.err != nil {
		return nil, m.err
	}
	return &fanout.Result{InsertedCount: len(recipients)}, nil
}

type MockDirectory struct {
	calls int
}

func (m *MockDirectory) AllIDs(ctx context.Context) ([]string, error) {
	m.calls++
	return []string{"u1"}, nil
}

func (m *MockDirectory) IDsIn(ctx context.Context, ids []string) ([]string, error) {
	m.calls++
	return ids, nil
}

func (m *MockDirectory) IDsWithCityMatching(ctx context.Context, patterns []string) ([]string, error) {
	m.calls++
	return []string{"u1"}, nil
}

type MockAuditor struct {
	entries []models.AuditEntry
}

func (m *MockAuditor) Record(ctx context.Context, entry models.AuditEntry) {
	m.entries = append(m.entries, entry)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, resolver *MockResolver, dispatcher *MockDispatcher, auditor *MockAuditor) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Auditor:    auditor,
		Logger:     logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func adminRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/send", strings.NewReader(body))
	session := &models.Session{ID: "s1", Identity: models.Identity{UserID: "admin-1", IsAdmin: true}}
	return req.WithContext(auth.WithSession(req.Context(), session))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Send_Success(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		found    []string
		wantKind segmentation.Kind
		wantVals []string
	}{
		{
			name:     "explicit users",
			body:     `{"title":"Hi","message":"Body","targetUserIds":["u1","u2"]}`,
			found:    []string{"u1", "u2"},
			wantKind: segmentation.KindByUserIDs,
			wantVals: []string{"u1", "u2"},
		},
		{
			name:     "legacy specific-state segment",
			body:     `{"title":"Hi","message":"Body","segment":"specific-state","targetState":"Lagos"}`,
			found:    []string{"u3"},
			wantKind: segmentation.KindByStates,
			wantVals: []string{"Lagos"},
		},
		{
			name:     "no targeting means everyone",
			body:     `{"title":"Hi","message":"Body"}`,
			found:    []string{"u1", "u2", "u3"},
			wantKind: segmentation.KindAll,
		},
		{
			name:     "user ids beat states",
			body:     `{"title":"Hi","message":"Body","targetStates":["Ogun"],"targetUserIds":["u9"]}`,
			found:    []string{"u9"},
			wantKind: segmentation.KindByUserIDs,
			wantVals: []string{"u9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &MockResolver{recipients: tt.found}
			dispatcher := &MockDispatcher{}
			auditor := &MockAuditor{}
			h := createTestHandler(t, resolver, dispatcher, auditor)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, adminRequest(tt.body))

			require.Equal(t, http.StatusOK, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, true, out["success"])
			assert.Equal(t, float64(len(tt.found)), out["count"])

			require.NotNil(t, resolver.spec)
			assert.Equal(t, tt.wantKind, resolver.spec.Kind)
			if tt.wantVals != nil {
				assert.Equal(t, tt.wantVals, resolver.spec.Values)
			}

			require.Len(t, auditor.entries, 1)
			assert.Equal(t, models.AuditSendNotification, auditor.entries[0].ActionType)
			assert.Equal(t, "admin-1", auditor.entries[0].AdminID)
		})
	}
}

func TestHandler_Send_NoRecipients(t *testing.T) {
	dispatcher := &MockDispatcher{}
	auditor := &MockAuditor{}
	h := createTestHandler(t, &MockResolver{}, dispatcher, auditor)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(`{"title":"Hi","message":"Body","targetStates":["Nowhere"]}`))

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, NoRecipientsMessage, out["message"])
	assert.Nil(t, out["success"])
	assert.Equal(t, 0, dispatcher.calls)
	assert.Empty(t, auditor.entries)
}

func TestHandler_Send_BlankTargetsMatchNobody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "blank user ids", body: `{"title":"Hi","message":"Body","targetUserIds":[" "]}`},
		{name: "blank states", body: `{"title":"Hi","message":"Body","targetStates":["", "  "]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &MockDirectory{}
			dispatcher := &MockDispatcher{}
			h, err := NewHandler(HandlerOptions{
				Resolver:   segmentation.NewResolver(dir, nil),
				Dispatcher: dispatcher,
				Auditor:    &MockAuditor{},
				Logger:     logger.NewTestLogger(t),
			})
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, adminRequest(tt.body))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, NoRecipientsMessage, decode(t, rec)["message"])
			assert.Equal(t, 0, dir.calls)
			assert.Equal(t, 0, dispatcher.calls)
		})
	}
}

// ==========================
// Pipeline Tests
// ==========================

func TestHandler_Send_StatesThroughPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM profiles WHERE city ILIKE ANY($1)`)).
		WithArgs(pq.Array([]string{"%Lagos%", "%Oyo%"})).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-ikeja").AddRow("u-ibadan"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications (id, user_id, title, message, is_read, created_at) VALUES ($1, $2, $3, $4, $5, $6), ($7, $8, $9, $10, $11, $12)")).
		WithArgs(
			sqlmock.AnyArg(), "u-ikeja", "Price drop", "PMS is now cheaper", false, sqlmock.AnyArg(),
			sqlmock.AnyArg(), "u-ibadan", "Price drop", "PMS is now cheaper", false, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	auditor := &MockAuditor{}
	h, err := NewHandler(HandlerOptions{
		Resolver:   segmentation.NewResolver(repository.NewProfileRepository(db), nil),
		Dispatcher: fanout.NewDispatcher(repository.NewNotificationRepository(db, 1000), nil),
		Auditor:    auditor,
		Logger:     logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(`{"title":"Price drop","message":"PMS is now cheaper","targetStates":["Lagos","Oyo"]}`))

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(2), out["count"])
	require.Len(t, auditor.entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Send_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "malformed json", body: `{"title":`},
		{name: "missing title", body: `{"message":"Body"}`},
		{name: "blank message", body: `{"title":"Hi","message":"  "}`},
		{name: "unknown segment", body: `{"title":"Hi","message":"Body","segment":"vip"}`},
		{name: "state segment without state", body: `{"title":"Hi","message":"Body","segment":"specific-state"}`},
		{name: "unexpected field", body: `{"title":"Hi","message":"Body","priority":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &MockResolver{recipients: []string{"u1"}}
			dispatcher := &MockDispatcher{}
			h := createTestHandler(t, resolver, dispatcher, &MockAuditor{})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, adminRequest(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(apperrors.ErrCodeValidationFailed), decode(t, rec)["code"])
			assert.Equal(t, 0, dispatcher.calls)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Send_StorageFailure(t *testing.T) {
	dispatcher := &MockDispatcher{err: apperrors.NewStorageError("insert notifications", errors.New("connection reset"))}
	auditor := &MockAuditor{}
	h := createTestHandler(t, &MockResolver{recipients: []string{"u1"}}, dispatcher, auditor)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(`{"title":"Hi","message":"Body"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(apperrors.ErrCodeStorage), decode(t, rec)["code"])
	assert.Empty(t, auditor.entries)
}

func TestHandler_Send_ResolverFailure(t *testing.T) {
	resolver := &MockResolver{err: apperrors.NewStorageError("list profiles", errors.New("timeout"))}
	dispatcher := &MockDispatcher{}
	h := createTestHandler(t, resolver, dispatcher, &MockAuditor{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(`{"title":"Hi","message":"Body"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0, dispatcher.calls)
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.MaxBodyBytes = 0
	assert.Error(t, cfg.Validate())
}

func TestHandler_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	h, err := NewHandler(HandlerOptions{
		Resolver:     &MockResolver{},
		Dispatcher:   &MockDispatcher{},
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(`{"title":"Hi","message":"Body"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
