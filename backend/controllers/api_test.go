package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trainhub/backend/config"
	"trainhub/backend/models"
	"trainhub/backend/routes"
	"trainhub/backend/services"
	"trainhub/backend/utils"
)

var apiDBCounter int

type testEnv struct {
	App *fiber.App
	DB  *gorm.DB
	Cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	apiDBCounter++
	dsn := fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", apiDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "testsecret",
		ServerPort:     "8080",
		UploadDir:      t.TempDir(),
		CertificateDir: t.TempDir(),
	}

	appLogger := utils.InitLogger()
	mailer := utils.NewMailer(cfg, appLogger)
	issuer := &services.CertificateIssuer{
		Renderer: &services.FileRenderer{Dir: cfg.CertificateDir},
	}
	submissions := &services.SubmissionService{Issuer: issuer}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, issuer, submissions, mailer)

	return &testEnv{App: app, DB: db, Cfg: cfg}
}

func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
		Status:       models.UserActive,
	}
	require.NoError(t, e.DB.Create(user).Error)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(user, e.Cfg)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	var registered struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	status := env.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"username":  "ada",
		"email":     "ada@example.com",
		"password":  "password123",
		"full_name": "Ada Lovelace",
	}, &registered)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "learner", registered.User.Role)

	var loggedIn struct {
		Token string `json:"token"`
	}
	status = env.do(t, "POST", "/api/auth/login", "", fiber.Map{
		"username": "ada",
		"password": "password123",
	}, &loggedIn)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, loggedIn.Token)

	status = env.do(t, "POST", "/api/auth/login", "", fiber.Map{
		"username": "ada",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginSuspendedAccount(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada", models.RoleLearner)
	user.Status = models.UserSuspended
	require.NoError(t, env.DB.Save(user).Error)

	status := env.do(t, "POST", "/api/auth/login", "", fiber.Map{
		"username": "ada",
		"password": "password123",
	}, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAuthRequiredAndRoleEnforced(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "ada", models.RoleLearner)
	token := env.tokenFor(t, learner)

	status := env.do(t, "GET", "/api/programs/", "", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status = env.do(t, "GET", "/api/programs/", token, nil, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// Learners cannot reach program administration.
	status = env.do(t, "POST", "/api/admin/programs/", token, fiber.Map{
		"title": "Safety",
	}, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAdminProgramLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	token := env.tokenFor(t, admin)

	var created struct {
		Data models.Program `json:"data"`
	}
	status := env.do(t, "POST", "/api/admin/programs/", token, fiber.Map{
		"title":               "Safety Training",
		"description":         "Annual workplace safety",
		"learning_objectives": []string{"hazards", "ppe"},
		"expiry_duration":     12,
	}, &created)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotZero(t, created.Data.ID)
	assert.Equal(t, 12, created.Data.ExpiryDuration)

	var moduleResp struct {
		Data models.ProgramModule `json:"data"`
	}
	status = env.do(t, "POST", fmt.Sprintf("/api/admin/programs/%d/modules", created.Data.ID), token, fiber.Map{
		"title":    "Basics",
		"position": 1,
	}, &moduleResp)
	require.Equal(t, fiber.StatusCreated, status)

	status = env.do(t, "POST", fmt.Sprintf("/api/admin/modules/%d/units", moduleResp.Data.ID), token, fiber.Map{
		"title":    "Introduction",
		"position": 1,
	}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	var structure struct {
		Data struct {
			Modules []struct {
				Title string `json:"title"`
				Units []struct {
					Title string `json:"title"`
				} `json:"units"`
			} `json:"modules"`
		} `json:"data"`
	}
	status = env.do(t, "GET", fmt.Sprintf("/api/programs/%d/structure", created.Data.ID), token, nil, &structure)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, structure.Data.Modules, 1)
	assert.Equal(t, "Basics", structure.Data.Modules[0].Title)
	require.Len(t, structure.Data.Modules[0].Units, 1)
}

func TestSubmitAssessmentEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "ada", models.RoleLearner)
	token := env.tokenFor(t, learner)

	program := &models.Program{Title: "Safety"}
	require.NoError(t, env.DB.Create(program).Error)
	require.NoError(t, env.DB.Create(&models.Enrollment{
		UserID:     learner.ID,
		ProgramID:  program.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	question := &models.Question{
		Text:          "hard hats are required on site",
		Type:          models.QuestionTrueFalse,
		Points:        1,
		CorrectAnswer: "true",
	}
	require.NoError(t, env.DB.Create(question).Error)

	assessment := &models.Assessment{Title: "final", ProgramID: &program.ID, PassMark: 60}
	require.NoError(t, env.DB.Create(assessment).Error)
	require.NoError(t, env.DB.Create(&models.AssessmentQuestion{
		AssessmentID: assessment.ID,
		QuestionID:   question.ID,
		Position:     1,
	}).Error)

	var fetched struct {
		Data struct {
			Questions []struct {
				ID            uint   `json:"id"`
				Text          string `json:"text"`
				CorrectAnswer string `json:"correct_answer"`
			} `json:"questions"`
		} `json:"data"`
	}
	status := env.do(t, "GET", fmt.Sprintf("/api/assessments/%d", assessment.ID), token, nil, &fetched)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, fetched.Data.Questions, 1)
	// Answer keys never leave the server.
	assert.Empty(t, fetched.Data.Questions[0].CorrectAnswer)

	var submitted struct {
		Data struct {
			Percentage           float64 `json:"percentage"`
			IsPassed             bool    `json:"is_passed"`
			CertificateGenerated bool    `json:"certificate_generated"`
			CertificateID        uint    `json:"certificate_id"`
		} `json:"data"`
	}
	status = env.do(t, "POST", fmt.Sprintf("/api/assessments/%d/submit", assessment.ID), token, fiber.Map{
		"answers": []fiber.Map{
			{"question_id": question.ID, "answer_text": "true"},
		},
	}, &submitted)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, submitted.Data.IsPassed)
	assert.True(t, submitted.Data.CertificateGenerated)
	require.NotZero(t, submitted.Data.CertificateID)

	var cert models.Certificate
	require.NoError(t, env.DB.First(&cert, submitted.Data.CertificateID).Error)

	// Public verification needs no token.
	var verified struct {
		Data struct {
			Valid   bool   `json:"valid"`
			Message string `json:"message"`
		} `json:"data"`
	}
	status = env.do(t, "GET", "/api/certificates/verify/"+cert.VerificationCode, "", nil, &verified)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, verified.Data.Valid)
}

func TestSubmitUnknownAssessmentReturns404(t *testing.T) {
	env := newTestEnv(t)
	learner := env.createUser(t, "ada", models.RoleLearner)
	token := env.tokenFor(t, learner)

	status := env.do(t, "POST", "/api/assessments/999/submit", token, fiber.Map{
		"answers": []fiber.Map{},
	}, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestManualCertificateGeneration(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	learner := env.createUser(t, "ada", models.RoleLearner)
	token := env.tokenFor(t, admin)

	program := &models.Program{Title: "Safety"}
	require.NoError(t, env.DB.Create(program).Error)

	// Not enrolled yet.
	status := env.do(t, "POST", "/api/admin/certificates/generate", token, fiber.Map{
		"program_id": program.ID,
		"user_id":    learner.ID,
	}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	require.NoError(t, env.DB.Create(&models.Enrollment{
		UserID:     learner.ID,
		ProgramID:  program.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now(),
	}).Error)

	var created struct {
		Data models.Certificate `json:"data"`
	}
	status = env.do(t, "POST", "/api/admin/certificates/generate", token, fiber.Map{
		"program_id": program.ID,
		"user_id":    learner.ID,
	}, &created)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotZero(t, created.Data.ID)

	status = env.do(t, "PUT", fmt.Sprintf("/api/admin/certificates/%d/revoke", created.Data.ID), token, nil, nil)
	require.Equal(t, fiber.StatusOK, status)

	var verified struct {
		Data struct {
			Valid   bool   `json:"valid"`
			Message string `json:"message"`
		} `json:"data"`
	}
	status = env.do(t, "GET", "/api/certificates/verify/"+created.Data.VerificationCode, "", nil, &verified)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, verified.Data.Valid)
	assert.Equal(t, "Certificate has been revoked", verified.Data.Message)
}

func TestEnrollmentAssignmentConflict(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	learner := env.createUser(t, "ada", models.RoleLearner)
	token := env.tokenFor(t, admin)

	program := &models.Program{Title: "Safety"}
	require.NoError(t, env.DB.Create(program).Error)

	body := fiber.Map{"user_id": learner.ID, "program_id": program.ID}
	status := env.do(t, "POST", "/api/admin/enrollments/", token, body, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status = env.do(t, "POST", "/api/admin/enrollments/", token, body, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}
