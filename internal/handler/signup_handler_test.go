package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-event-platform/internal/auth"
	"go-event-platform/internal/handler"
	"go-event-platform/internal/model"
	"go-event-platform/internal/service/mocks"
	apperrors "go-event-platform/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var signupActor = auth.Actor{ID: 2, Role: model.RoleUser}

func setupSignupTestRouter(mockService *mocks.MockSignupService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	signupHandler := handler.NewSignupHandler(mockService)
	signupHandler.RegisterRoutes(router, stubAuth(signupActor))

	return router
}

func sampleSignup() *model.Signup {
	return &model.Signup{
		ID:       1,
		SignupID: uuid.New(),
		EventID:  1,
		UserID:   signupActor.ID,
	}
}

func TestSignupToEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		eventID := uuid.New()
		mockService.On("SignupToEvent", mock.Anything, signupActor, eventID).
			Return(sampleSignup(), nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/signups/"+eventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "eventSignup")
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		mockService.On("SignupToEvent", mock.Anything, signupActor, mock.Anything).
			Return(nil, apperrors.ErrEventNotFound).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/signups/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "No such event")
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrAlreadySignedUp", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		mockService.On("SignupToEvent", mock.Anything, signupActor, mock.Anything).
			Return(nil, apperrors.ErrAlreadySignedUp).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/signups/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Already signed up")
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventFull", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		mockService.On("SignupToEvent", mock.Anything, signupActor, mock.Anything).
			Return(nil, apperrors.ErrEventFull).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/signups/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Event is full")
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - InvalidUUID", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/signups/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "SignupToEvent")
	})
}

func TestGetSignup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		signup := sampleSignup()
		eventID := uuid.New()
		mockService.On("GetForEvent", mock.Anything, signupActor, eventID).
			Return(signup, nil).Once()

		req, _ := http.NewRequest("GET", "/api/v1/signups/"+eventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		// 回應是單元素陣列
		var body []*model.Signup
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, signup.SignupID, body[0].SignupID)
		mockService.AssertExpectations(t)
	})

	t.Run("NoSignup - NoContent", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		mockService.On("GetForEvent", mock.Anything, signupActor, mock.Anything).
			Return(nil, nil).Once()

		req, _ := http.NewRequest("GET", "/api/v1/signups/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		// 沒有報名不是錯誤，回 204
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		mockService.AssertExpectations(t)
	})
}

func TestListSignups(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		mockService.On("ListByUser", mock.Anything, signupActor, 0, 20).
			Return([]*model.Signup{sampleSignup()}, 1, nil).Once()

		req, _ := http.NewRequest("GET", "/api/v1/signups", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "eventsSignups")
		mockService.AssertExpectations(t)
	})
}

func TestDeleteSignup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		eventID := uuid.New()
		mockService.On("DeleteSignup", mock.Anything, signupActor, eventID).
			Return(sampleSignup(), nil).Once()

		req, _ := http.NewRequest("DELETE", "/api/v1/signups/"+eventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Event sign-up deleted successfully")
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrSignupNotFound", func(t *testing.T) {
		mockService := mocks.NewMockSignupService()
		router := setupSignupTestRouter(mockService)

		mockService.On("DeleteSignup", mock.Anything, signupActor, mock.Anything).
			Return(nil, apperrors.ErrSignupNotFound).Once()

		req, _ := http.NewRequest("DELETE", "/api/v1/signups/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No such event sign-up")
		mockService.AssertExpectations(t)
	})
}
