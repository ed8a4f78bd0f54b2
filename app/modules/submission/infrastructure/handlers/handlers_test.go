package submissionhandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	authhandlers "github.com/ieee-sb/thesandbox/app/modules/auth/infrastructure/handlers"
	submissionservice "github.com/ieee-sb/thesandbox/app/modules/submission/application"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(svc submissionservice.Service, claims *authdomain.Claims) http.Handler {
	h := NewSubmissionHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if claims != nil {
				req = req.WithContext(authhandlers.WithClaims(req.Context(), claims))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/submissions/{phase}", h.HandleSubmit)
	r.Get("/api/submissions", h.HandleMySubmissions)
	r.Get("/api/admin/submissions/{phase}", h.HandleListSubmissions)
	r.Post("/api/admin/submissions/{phase}/{id}/approve", h.HandleApprove)
	r.Post("/api/admin/submissions/{phase}/{id}/reject", h.HandleReject)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleSubmit(t *testing.T) {
	leader := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectUser, Role: authdomain.RoleParticipant}
	regID := uuid.New()

	svc := NewFakeSubmissionService()
	var got submissionservice.SubmitInput
	var gotPhase string
	svc.SubmitFunc = func(ctx context.Context, caller *authdomain.Claims, phase string, input submissionservice.SubmitInput) (*submissionservice.SubmissionView, error) {
		assert.Equal(t, leader.Subject, caller.Subject)
		gotPhase = phase
		got = input
		for _, f := range input.Files {
			data, err := io.ReadAll(f.Body)
			require.NoError(t, err)
			assert.Equal(t, "content of "+f.FileName, string(data))
		}
		return &submissionservice.SubmissionView{ID: uuid.New(), Phase: phase, Status: "pending"}, nil
	}

	body, contentType := multipartBody(t,
		map[string]string{"registrationId": regID.String()},
		map[string]string{"abstract": "abstract.pdf", "poster": "poster.pdf"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions/preliminary", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newRouter(svc, leader).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "preliminary", gotPhase)
	assert.Equal(t, regID, got.RegistrationID)
	require.Len(t, got.Files, 2)
	assert.Equal(t, "abstract", got.Files[0].Field)
	assert.Equal(t, "poster", got.Files[1].Field)
	assert.Equal(t, int64(len("content of abstract.pdf")), got.Files[0].Size)
}

func TestHandleSubmit_Errors(t *testing.T) {
	leader := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectUser, Role: authdomain.RoleParticipant}

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/submissions/preliminary", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		newRouter(NewFakeSubmissionService(), leader).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("bad registration id", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"registrationId": "nope"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/submissions/preliminary", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		newRouter(NewFakeSubmissionService(), leader).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("service errors map to status", func(t *testing.T) {
		tests := []struct {
			err        error
			wantStatus int
		}{
			{apperrors.New(apperrors.KindForbidden, apperrors.CodeNotOwner, "not yours"), http.StatusForbidden},
			{apperrors.New(apperrors.KindState, apperrors.CodeSubmissionClosed, "closed"), http.StatusConflict},
			{apperrors.New(apperrors.KindConflict, apperrors.CodeAlreadySubmitted, "again"), http.StatusConflict},
			{apperrors.Dependency("storage down", nil), http.StatusBadGateway},
		}
		for _, tt := range tests {
			svc := NewFakeSubmissionService()
			svc.SubmitFunc = func(ctx context.Context, caller *authdomain.Claims, phase string, input submissionservice.SubmitInput) (*submissionservice.SubmissionView, error) {
				return nil, tt.err
			}
			body, contentType := multipartBody(t, nil, map[string]string{"abstract": "a.pdf"})
			req := httptest.NewRequest(http.MethodPost, "/api/submissions/semifinal", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			newRouter(svc, leader).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, apperrors.GetCode(tt.err))
		}
	})
}

func TestHandleMySubmissions(t *testing.T) {
	leader := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectUser, Role: authdomain.RoleParticipant}
	svc := NewFakeSubmissionService()
	svc.ListForUserFunc = func(ctx context.Context, userID uuid.UUID) (*submissionservice.TeamSubmissions, error) {
		assert.Equal(t, leader.Subject, userID)
		return &submissionservice.TeamSubmissions{
			CurrentPhase: "semifinal",
			Required:     submissiondomain.RequiredFiles("PTC", "semifinal"),
		}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc, leader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "semifinal", body["currentPhase"])
	assert.Len(t, body["required"], 2)

	rec = httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/submissions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleListSubmissions(t *testing.T) {
	staff := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleReviewer}
	svc := NewFakeSubmissionService()
	var got submissionservice.ListFilter
	svc.ListFunc = func(ctx context.Context, filter submissionservice.ListFilter) ([]*submissionservice.SubmissionView, error) {
		got = filter
		return []*submissionservice.SubmissionView{{ID: uuid.New(), Phase: filter.Phase}}, nil
	}

	rec := httptest.NewRecorder()
	newRouter(svc, staff).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/submissions/semifinal?status=pending&competition=TPC&limit=1000", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "semifinal", got.Phase)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "TPC", got.CompetitionCode)
	assert.Equal(t, maxListLimit, got.Limit)

	rec = httptest.NewRecorder()
	newRouter(svc, staff).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/submissions/semifinal?offset=-1", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleReview(t *testing.T) {
	staff := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleReviewer}
	id := uuid.New()

	svc := NewFakeSubmissionService()
	var gotInput submissionservice.ReviewInput
	svc.ReviewFunc = func(ctx context.Context, actor *authdomain.Claims, phase string, subID uuid.UUID, input submissionservice.ReviewInput) (*submissionservice.SubmissionView, error) {
		assert.Equal(t, "preliminary", phase)
		assert.Equal(t, id, subID)
		gotInput = input
		if input.Decision == submissiondomain.DecisionApprove {
			return &submissionservice.SubmissionView{ID: subID, Status: "qualified"}, nil
		}
		return nil, apperrors.New(apperrors.KindState, apperrors.CodeAlreadyReviewed, "already reviewed")
	}

	rec := httptest.NewRecorder()
	newRouter(svc, staff).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/submissions/preliminary/"+id.String()+"/approve", strings.NewReader(`{"notes":"good"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", gotInput.Notes)
	assert.Contains(t, rec.Body.String(), `"qualified"`)

	rec = httptest.NewRecorder()
	newRouter(svc, staff).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/submissions/preliminary/"+id.String()+"/reject", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_REVIEWED")

	rec = httptest.NewRecorder()
	newRouter(svc, staff).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/submissions/preliminary/not-a-uuid/approve", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
