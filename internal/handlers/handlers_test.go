package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/database"
	"github.com/yukikurage/resource-planning-api/internal/middleware"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/repository"
	"github.com/yukikurage/resource-planning-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testDevCode = "246810"

// fakeLeave answers calendar requests without an HR system.
type fakeLeave struct {
	calendar *services.LeaveCalendar
	result   *services.SyncResult
	err      error
}

func (f *fakeLeave) Calendar() (*services.LeaveCalendar, error) {
	return f.calendar, nil
}

func (f *fakeLeave) Sync(_ context.Context, _ services.SyncTrigger) (*services.SyncResult, error) {
	return f.result, f.err
}

type handlerTestEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	svc       Services
	leave     *fakeLeave
	org       *models.Organization
	superuser *models.User
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	personRepo := repository.NewPersonRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	leave := &fakeLeave{calendar: &services.LeaveCalendar{}}
	svc := Services{
		Auth: services.NewAuthService(
			userRepo,
			orgRepo,
			repository.NewOTPRepository(db),
			services.NewLogOTPSender(zerolog.Nop()),
			services.AuthConfig{DevCode: testDevCode},
		),
		Organizations: services.NewOrganizationService(orgRepo, userRepo),
		Projects:      services.NewProjectService(projectRepo),
		People:        services.NewPersonService(personRepo),
		Assignments:   services.NewAssignmentService(assignmentRepo, projectRepo, personRepo),
		Dashboard:     services.NewDashboardService(projectRepo, personRepo),
		Export:        services.NewExportService(personRepo),
		Leave:         leave,
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(zerolog.Nop()))
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r.Group("/api"), svc)

	org, su, err := svc.Organizations.CreateOrganization(services.CreateOrganizationInput{
		Name:           "Acme",
		MaxUsers:       10,
		SuperuserEmail: "boss@acme.test",
		SuperuserName:  "Boss",
	})
	require.NoError(t, err)

	return &handlerTestEnv{
		db:        db,
		router:    r,
		svc:       svc,
		leave:     leave,
		org:       org,
		superuser: su,
	}
}

// testClient carries the session cookie between requests.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func (e *handlerTestEnv) client(t *testing.T) *testClient {
	return &testClient{t: t, router: e.router}
}

func (c *testClient) do(method, path string, payload any) *httptest.ResponseRecorder {
	c.t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(c.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	if fresh := w.Result().Cookies(); len(fresh) > 0 {
		c.cookies = fresh
	}
	return w
}

// login signs email in through the one-time code flow.
func (c *testClient) login(email string) {
	c.t.Helper()
	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	w = c.do(http.MethodPost, "/api/auth/verify", map[string]string{"code": testDevCode})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// handlerTestContext builds a context for calling a handler directly, as the
// organization middleware would leave it.
func handlerTestContext(method, url string, body []byte, userID uint64, org *models.Organization, role models.OrganizationRole) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	if org != nil {
		c.Set(constants.ContextKeyOrganization, org)
		c.Set(constants.ContextKeyMembership, role)
	}

	return c, w
}
